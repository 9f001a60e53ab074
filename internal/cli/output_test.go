package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: "text", Writer: &buf}

	err := f.Emit(map[string]string{"ignored": "x"}, func(w io.Writer) {
		io.WriteString(w, "hello\n")
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", buf.String())
}

func TestFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Emit(map[string]string{"net": "-20.00"}, func(io.Writer) {
		t.Fatal("text renderer must not run for json output")
	}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: "yaml", Writer: &buf}

	require.NoError(t, f.Emit([]string{"a", "b"}, func(io.Writer) {
		t.Fatal("text renderer must not run for yaml output")
	}))

	var resp Response
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatter_WarnGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &Formatter{Format: "json", Writer: &out, ErrWriter: &errOut}

	f.Warn("careful: %s", "degraded")
	assert.Empty(t, out.String())
	assert.Equal(t, "careful: degraded\n", errOut.String())
}
