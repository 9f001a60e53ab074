package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$20.00", FormatAmount(decimal.NewFromInt(20)))
	assert.Equal(t, "$0.10", FormatAmount(decimal.RequireFromString("0.1")))
	assert.Equal(t, "$1234.57", FormatAmount(decimal.RequireFromString("1234.565")))
}

func TestFormatNet(t *testing.T) {
	assert.Equal(t, "-$20.00", FormatNet(decimal.NewFromInt(-20)))
	assert.Equal(t, "+$5.00", FormatNet(decimal.NewFromInt(5)))
	assert.Equal(t, "$0.00", FormatNet(decimal.Zero))
}

func TestFriendshipEdge_PeerID(t *testing.T) {
	e := FriendshipEdge{ID: "f1", User: &User{ID: "u2"}, Status: FriendStatusPending}
	assert.Equal(t, "u2", e.PeerID())

	assert.Equal(t, "", FriendshipEdge{ID: "f2"}.PeerID())
}
