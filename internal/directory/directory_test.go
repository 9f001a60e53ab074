package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

func TestNameOf_FallbackChain(t *testing.T) {
	d := New([]domain.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		{ID: "u2", Email: "bob@example.com"},
		{ID: "u3"},
	})

	assert.Equal(t, "Alice", d.NameOf("u1"))
	assert.Equal(t, "bob@example.com", d.NameOf("u2"))
	// Known id with neither name nor email falls through to the id itself.
	assert.Equal(t, "u3", d.NameOf("u3"))
}

func TestNameOf_UnknownID(t *testing.T) {
	d := New(nil)

	// Long ids truncate to 8 characters.
	assert.Equal(t, "64f1a2b3", d.NameOf("64f1a2b3c4d5e6f7a8b9c0d1"))
	assert.Equal(t, "short", d.NameOf("short"))
	assert.Equal(t, "Unknown", d.NameOf(""))
}

func TestNew_DuplicateAndEmptyIDs(t *testing.T) {
	d := New([]domain.User{
		{ID: "u1", Name: "Old"},
		{ID: "", Name: "ghost"},
		{ID: "u1", Name: "New"},
	})

	require.Equal(t, 1, d.Len())
	assert.Equal(t, "New", d.NameOf("u1"))
}

func TestLookup(t *testing.T) {
	d := New([]domain.User{{ID: "u1", Name: "Alice"}})

	u, ok := d.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, "Alice", u.Name)

	_, ok = d.Lookup("nope")
	assert.False(t, ok)
}
