package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The authority decodes amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// User is a registered account. Owned by the authority; immutable from the
// client's perspective.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// DebtEdge is a directed balance record: FromUser owes ToUser Amount.
//
// The authority guarantees edges are already net per ordered pair: no pair
// owes in both directions within one snapshot, and no pair appears twice.
type DebtEdge struct {
	FromUser string          `json:"from_user"`
	ToUser   string          `json:"to_user"`
	Amount   decimal.Decimal `json:"amount"`
}

// Settlement is an immutable record of a payment that reduced a debt.
type Settlement struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id,omitempty"`
	PaidBy    string          `json:"paid_by"`
	PaidTo    string          `json:"paid_to"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Group is a set of users sharing expenses. CreatedBy is always a member.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Expense is a shared cost logged in a group. Deleting one invalidates the
// downstream DebtEdges, which the authority recomputes.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PaidBy      string          `json:"paid_by"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Splits      []ExpenseSplit  `json:"splits"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Friendship states as reported by the authority.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// FriendshipEdge is one friend-request record as listed by the friends
// endpoints: the edge id plus the peer user on the other side. Directed at
// creation; symmetric in effect once accepted.
//
// At most one edge, in either direction, exists between two users at a
// time. The authority enforces this; the client defends against it anyway
// (see relations.Graph).
type FriendshipEdge struct {
	ID        string    `json:"id"`
	User      *User     `json:"user"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PeerID returns the id of the user on the other side of the edge, or ""
// when the authority sent a malformed record with no user attached.
func (e FriendshipEdge) PeerID() string {
	if e.User == nil {
		return ""
	}
	return e.User.ID
}
