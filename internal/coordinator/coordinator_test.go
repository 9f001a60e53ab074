package coordinator

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjwal0563/splitwise-cli/internal/api"
	"github.com/ujjwal0563/splitwise-cli/internal/config"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
	"github.com/ujjwal0563/splitwise-cli/internal/relations"
	"github.com/ujjwal0563/splitwise-cli/internal/settle"
	"github.com/ujjwal0563/splitwise-cli/internal/testutil"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newAuthority() *testutil.Authority {
	a := testutil.NewAuthority()
	a.Users = []domain.User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com"},
		{ID: "bob", Name: "Bob", Email: "bob@example.com"},
		{ID: "carol", Name: "Carol", Email: "carol@example.com"},
	}
	return a
}

func newCoordinator(a *testutil.Authority, confirm Confirmer) *Coordinator {
	client := api.New(a.URL(), "tok")
	session := config.NewSession(&config.Config{UserID: "alice", Token: "tok"})
	return New(client, session, confirm)
}

func TestLoadDashboard(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Balances = []domain.DebtEdge{
		{FromUser: "alice", ToUser: "bob", Amount: amt("20.00")},
		{FromUser: "carol", ToUser: "alice", Amount: amt("7.50")},
	}
	a.Settlements = []domain.Settlement{{ID: "s1", PaidBy: "bob", PaidTo: "alice", Amount: amt("5.00")}}

	snap := newCoordinator(a, nil).LoadDashboard(context.Background())

	assert.False(t, snap.Degraded)
	require.Len(t, snap.Balances.IOwe, 1)
	require.Len(t, snap.Balances.OwedToMe, 1)
	assert.True(t, snap.Balances.Net.Equal(amt("-12.50")))
	require.Len(t, snap.Settlements, 1)
	assert.Equal(t, "Bob", snap.Roster.NameOf("bob"))
}

func TestLoadDashboard_DegradedOnAnyFetchFailure(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Balances = []domain.DebtEdge{{FromUser: "alice", ToUser: "bob", Amount: amt("20.00")}}
	a.FailWith("GET /api/users/settlements", "boom", http.StatusInternalServerError)

	snap := newCoordinator(a, nil).LoadDashboard(context.Background())

	// Degraded, and nothing partial leaks through: balances fetched fine
	// but are discarded along with the failed source.
	assert.True(t, snap.Degraded)
	assert.True(t, snap.Balances.Settled())
	assert.Empty(t, snap.Settlements)
	assert.Equal(t, 0, snap.Roster.Len())

	// The barrier does not short-circuit: every fetch in the batch ran.
	assert.Equal(t, 1, a.RequestCount("GET /api/users/balances"))
	assert.Equal(t, 1, a.RequestCount("GET /api/users/settlements"))
	assert.Equal(t, 1, a.RequestCount("GET /api/users"))
}

func TestLoadFriends(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Pending = []domain.FriendshipEdge{
		{ID: "f1", User: &domain.User{ID: "bob", Name: "Bob"}, Status: domain.FriendStatusPending},
	}

	snap := newCoordinator(a, nil).LoadFriends(context.Background())

	assert.False(t, snap.Degraded)
	assert.Equal(t, relations.RelationPendingIncoming, snap.Graph.Classify("bob"))
	assert.Equal(t, relations.RelationUnrelated, snap.Graph.Classify("carol"))
}

func TestAcceptFriendRequest_RefetchesSnapshot(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Pending = []domain.FriendshipEdge{
		{ID: "f1", User: &domain.User{ID: "bob", Name: "Bob"}, Status: domain.FriendStatusPending},
	}

	c := newCoordinator(a, nil)
	snap, err := c.AcceptFriendRequest(context.Background(), "f1")
	require.NoError(t, err)

	// Derived state reflects the authority's new snapshot, not a local patch.
	assert.Equal(t, relations.RelationFriend, snap.Graph.Classify("bob"))
	assert.GreaterOrEqual(t, a.RequestCount("GET /api/friends"), 1)
	assert.GreaterOrEqual(t, a.RequestCount("GET /api/friends/pending"), 1)
	assert.GreaterOrEqual(t, a.RequestCount("GET /api/friends/sent"), 1)
}

// Scenario: the authority rejects a duplicate request. The exact server
// string is surfaced and the local view is unchanged.
func TestSendFriendRequest_FailureSurfacedVerbatim(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Sent = []domain.FriendshipEdge{
		{ID: "f9", User: &domain.User{ID: "bob", Name: "Bob"}, Status: domain.FriendStatusPending},
	}
	a.FailWith("POST /api/friends/request", "friend request already sent", http.StatusBadRequest)

	c := newCoordinator(a, nil)
	before := c.LoadFriends(context.Background())
	require.Equal(t, relations.RelationPendingOutgoing, before.Graph.Classify("bob"))

	_, err := c.SendFriendRequest(context.Background(), "bob")
	require.Error(t, err)
	assert.Equal(t, "friend request already sent", err.Error())

	after := c.LoadFriends(context.Background())
	assert.Equal(t, relations.RelationPendingOutgoing, after.Graph.Classify("bob"))
	assert.Len(t, after.Graph.Outgoing(), 1)
}

// Scenario: a settlement that exactly matches a suggested edge makes that
// edge vanish from the refreshed snapshot.
func TestRecordSettlement_ExactMatchClearsEdge(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	edge := domain.DebtEdge{FromUser: "alice", ToUser: "bob", Amount: amt("20.00")}
	a.Groups["g1"] = &testutil.GroupState{
		Group:    domain.Group{ID: "g1", Name: "Trip", CreatedBy: "alice", Members: []string{"alice", "bob"}},
		Balances: []domain.DebtEdge{edge},
	}
	a.Balances = []domain.DebtEdge{edge}

	c := newCoordinator(a, nil)
	form := settle.Prefill(edge)
	snap, err := c.RecordSettlement(context.Background(), "g1", form)
	require.NoError(t, err)

	assert.Empty(t, snap.Balances)
	require.Len(t, snap.Settlements, 1)
	assert.Equal(t, "alice", snap.Settlements[0].PaidBy)
	assert.Equal(t, "bob", snap.Settlements[0].PaidTo)
	assert.True(t, snap.Settlements[0].Amount.Equal(amt("20.00")))

	// The global view clears too.
	dash := c.LoadDashboard(context.Background())
	assert.True(t, dash.Balances.Settled())
}

func TestRecordSettlement_PartialKeepsEdge(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	edge := domain.DebtEdge{FromUser: "alice", ToUser: "bob", Amount: amt("20.00")}
	a.Groups["g1"] = &testutil.GroupState{
		Group:    domain.Group{ID: "g1", Name: "Trip", CreatedBy: "alice", Members: []string{"alice", "bob"}},
		Balances: []domain.DebtEdge{edge},
	}

	c := newCoordinator(a, nil)
	snap, err := c.RecordSettlement(context.Background(), "g1", settle.Form{
		PaidBy: "alice", PaidTo: "bob", Amount: amt("5.00"),
	})
	require.NoError(t, err)

	// Partial payment forwarded as-is; the edge survives in the fake
	// because only exact matches net out there.
	require.Len(t, snap.Settlements, 1)
	assert.Len(t, snap.Balances, 1)
}

func TestRecordSettlement_LocalValidation(t *testing.T) {
	a := newAuthority()
	defer a.Close()

	c := newCoordinator(a, nil)
	_, err := c.RecordSettlement(context.Background(), "g1", settle.Form{
		PaidBy: "alice", PaidTo: "alice", Amount: amt("5.00"),
	})
	require.Error(t, err)
	// Rejected before any request went out.
	assert.Equal(t, 0, a.RequestCount("POST /api/groups/g1/settle"))
}

func TestLoadGroup_NotFound(t *testing.T) {
	a := newAuthority()
	defer a.Close()

	_, err := newCoordinator(a, nil).LoadGroup(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGroup_ConfirmationGate(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Groups["g1"] = &testutil.GroupState{
		Group: domain.Group{ID: "g1", Name: "Trip", CreatedBy: "alice", Members: []string{"alice"}},
	}

	declined := ConfirmerFunc(func(string) bool { return false })
	c := newCoordinator(a, declined)

	_, err := c.DeleteGroup(context.Background(), "g1", "Trip")
	assert.ErrorIs(t, err, ErrAborted)
	// The command was never issued.
	assert.Equal(t, 0, a.RequestCount("DELETE /api/groups/g1"))

	c = newCoordinator(a, AutoConfirm)
	groups, err := c.DeleteGroup(context.Background(), "g1", "Trip")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRemoveFriend_ConfirmationGate(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Friends = []domain.FriendshipEdge{
		{ID: "f1", User: &domain.User{ID: "bob", Name: "Bob"}, Status: domain.FriendStatusAccepted},
	}

	var prompt string
	declined := ConfirmerFunc(func(p string) bool {
		prompt = p
		return false
	})

	_, err := newCoordinator(a, declined).RemoveFriend(context.Background(), "f1", "Bob")
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "Remove Bob from your friends?", prompt)
	assert.Equal(t, 0, a.RequestCount("DELETE /api/friends/f1"))
}

func TestAddExpense_RefetchesGroup(t *testing.T) {
	a := newAuthority()
	defer a.Close()
	a.Groups["g1"] = &testutil.GroupState{
		Group: domain.Group{ID: "g1", Name: "Trip", CreatedBy: "alice", Members: []string{"alice", "bob"}},
	}

	snap, err := newCoordinator(a, nil).AddExpense(context.Background(), "g1", api.AddExpenseRequest{
		PaidBy:      "alice",
		Amount:      amt("30.00"),
		Description: "Dinner",
		SplitsType:  "equal",
	})
	require.NoError(t, err)
	require.Len(t, snap.Expenses, 1)
	assert.Equal(t, "Dinner", snap.Expenses[0].Description)
}

func TestPerEntityInflightGuard(t *testing.T) {
	a := newAuthority()
	defer a.Close()

	c := newCoordinator(a, nil)

	// Simulate a pending action on the entity, then try to submit again.
	_, err := c.begin("accept friend request", "f1")
	require.NoError(t, err)
	assert.True(t, c.Pending("f1"))

	_, err = c.AcceptFriendRequest(context.Background(), "f1")
	assert.ErrorIs(t, err, ErrActionPending)

	// Independent entities are not serialized against each other.
	_, err = c.begin("reject friend request", "f2")
	assert.NoError(t, err)

	c.end("f1")
	c.end("f2")
	assert.False(t, c.Pending("f1"))
}

func TestCreateGroup(t *testing.T) {
	a := newAuthority()
	defer a.Close()

	created, groups, err := newCoordinator(a, nil).CreateGroup(context.Background(), "Flat")
	require.NoError(t, err)
	assert.Equal(t, "Flat", created.Name)
	assert.Equal(t, "alice", created.CreatedBy)
	require.Len(t, groups, 1)
	assert.Contains(t, groups[0].Members, "alice")
}

func TestUpdateProfile(t *testing.T) {
	a := newAuthority()
	defer a.Close()

	u, err := newCoordinator(a, nil).UpdateProfile(context.Background(), "Alice B")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)
}
