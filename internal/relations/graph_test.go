package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjwal0563/splitwise-cli/internal/directory"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

var roster = []domain.User{
	{ID: "alice", Name: "Alice", Email: "alice@example.com"},
	{ID: "bob", Name: "Bob", Email: "bob@example.com"},
	{ID: "carol", Name: "Carol", Email: "carol@example.com"},
	{ID: "dave", Name: "Dave", Email: "dave@example.com"},
	{ID: "erin", Name: "Erin", Email: "erin@example.com"},
}

func edge(id, peer, status string) domain.FriendshipEdge {
	var user *domain.User
	for _, u := range roster {
		if u.ID == peer {
			u := u
			user = &u
			break
		}
	}
	return domain.FriendshipEdge{ID: id, User: user, Status: status}
}

func newGraph(t *testing.T) *Graph {
	t.Helper()
	return New("alice",
		[]domain.FriendshipEdge{edge("f1", "bob", domain.FriendStatusAccepted)},
		[]domain.FriendshipEdge{edge("f2", "carol", domain.FriendStatusPending)},
		[]domain.FriendshipEdge{edge("f3", "dave", domain.FriendStatusPending)},
		directory.New(roster),
	)
}

func TestClassify(t *testing.T) {
	g := newGraph(t)

	assert.Equal(t, RelationSelf, g.Classify("alice"))
	assert.Equal(t, RelationFriend, g.Classify("bob"))
	assert.Equal(t, RelationPendingIncoming, g.Classify("carol"))
	assert.Equal(t, RelationPendingOutgoing, g.Classify("dave"))
	assert.Equal(t, RelationUnrelated, g.Classify("erin"))
	assert.Equal(t, RelationUnrelated, g.Classify("never-seen"))
}

func TestClassify_Exclusive(t *testing.T) {
	g := newGraph(t)

	// Every roster user lands in exactly one category.
	seen := map[Relation]int{}
	for _, u := range roster {
		seen[g.Classify(u.ID)]++
	}
	assert.Equal(t, 1, seen[RelationSelf])
	assert.Equal(t, 1, seen[RelationFriend])
	assert.Equal(t, 1, seen[RelationPendingIncoming])
	assert.Equal(t, 1, seen[RelationPendingOutgoing])
	assert.Equal(t, 1, seen[RelationUnrelated])
}

func TestClassify_PrecedenceOnDirtyData(t *testing.T) {
	// The same peer shows up as friend and as pending request. Friend wins.
	g := New("alice",
		[]domain.FriendshipEdge{edge("f1", "bob", domain.FriendStatusAccepted)},
		[]domain.FriendshipEdge{edge("f2", "bob", domain.FriendStatusPending)},
		[]domain.FriendshipEdge{edge("f3", "bob", domain.FriendStatusPending)},
		directory.New(roster),
	)

	assert.Equal(t, RelationFriend, g.Classify("bob"))
}

func TestClassify_PendingBothDirections(t *testing.T) {
	g := New("alice",
		nil,
		[]domain.FriendshipEdge{edge("f2", "bob", domain.FriendStatusPending)},
		[]domain.FriendshipEdge{edge("f3", "bob", domain.FriendStatusPending)},
		directory.New(roster),
	)

	assert.Equal(t, RelationPendingIncoming, g.Classify("bob"))
}

func TestEdge(t *testing.T) {
	g := newGraph(t)

	e, ok := g.Edge("carol")
	require.True(t, ok)
	assert.Equal(t, "f2", e.ID)

	_, ok = g.Edge("erin")
	assert.False(t, ok)
}

func TestSearch_ExcludesRelatedUsers(t *testing.T) {
	g := newGraph(t)

	// "e" appears in every roster email, but only erin is unrelated.
	got := g.Search("e", 10)
	require.Len(t, got, 1)
	assert.Equal(t, "erin", got[0].ID)
}

func TestSearch_CaseInsensitiveNameAndEmail(t *testing.T) {
	g := newGraph(t)

	byName := g.Search("ERIN", 10)
	require.Len(t, byName, 1)
	assert.Equal(t, "erin", byName[0].ID)

	byEmail := g.Search("erin@EXAMPLE", 10)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "erin", byEmail[0].ID)
}

func TestSearch_BlankQueryAndLimit(t *testing.T) {
	g := New("alice", nil, nil, nil, directory.New(roster))

	assert.Empty(t, g.Search("", 10))
	assert.Empty(t, g.Search("   ", 10))
	assert.Empty(t, g.Search("e", 0))

	// With no relationships, everyone but self matches "e".
	assert.Len(t, g.Search("e", 10), 4)
	assert.Len(t, g.Search("e", 2), 2)
}

func TestSearch_NeverReturnsSelf(t *testing.T) {
	g := New("alice", nil, nil, nil, directory.New(roster))

	for _, u := range g.Search("alice", 10) {
		assert.NotEqual(t, "alice", u.ID)
	}
}

// Scenario: a pending request from alice to bob hides each from the
// other's search results.
func TestSearch_PendingPeerHiddenBothWays(t *testing.T) {
	aliceView := New("alice", nil, nil,
		[]domain.FriendshipEdge{edge("f1", "bob", domain.FriendStatusPending)},
		directory.New(roster),
	)
	bobView := New("bob", nil,
		[]domain.FriendshipEdge{{ID: "f1", User: &domain.User{ID: "alice", Name: "Alice", Email: "alice@example.com"}, Status: domain.FriendStatusPending}},
		nil,
		directory.New(roster),
	)

	assert.Equal(t, RelationPendingOutgoing, aliceView.Classify("bob"))
	assert.Equal(t, RelationPendingIncoming, bobView.Classify("alice"))

	for _, u := range aliceView.Search("bob", 10) {
		assert.NotEqual(t, "bob", u.ID)
	}
	for _, u := range bobView.Search("alice", 10) {
		assert.NotEqual(t, "alice", u.ID)
	}
}

func TestFriendsSortedByName(t *testing.T) {
	g := New("alice",
		[]domain.FriendshipEdge{
			edge("f1", "dave", domain.FriendStatusAccepted),
			edge("f2", "bob", domain.FriendStatusAccepted),
			edge("f3", "carol", domain.FriendStatusAccepted),
		},
		nil, nil,
		directory.New(roster),
	)

	friends := g.Friends()
	require.Len(t, friends, 3)
	assert.Equal(t, "bob", friends[0].PeerID())
	assert.Equal(t, "carol", friends[1].PeerID())
	assert.Equal(t, "dave", friends[2].PeerID())
}
