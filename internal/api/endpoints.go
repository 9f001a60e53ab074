package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

// Users returns the full roster.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

// Profile returns the current user's record.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/users/profile", nil, &out)
	return out, err
}

// UpdateProfile renames the current user.
func (c *Client) UpdateProfile(ctx context.Context, name string) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPut, "/users/profile", map[string]string{"name": name}, &out)
	return out, err
}

// UserBalances returns the current user's debt edges across all groups,
// already netted and deduplicated by the authority.
func (c *Client) UserBalances(ctx context.Context) ([]domain.DebtEdge, error) {
	var out []domain.DebtEdge
	err := c.do(ctx, http.MethodGet, "/users/balances", nil, &out)
	return out, err
}

// UserSettlements returns the current user's settlement history.
func (c *Client) UserSettlements(ctx context.Context) ([]domain.Settlement, error) {
	var out []domain.Settlement
	err := c.do(ctx, http.MethodGet, "/users/settlements", nil, &out)
	return out, err
}

// Friends returns accepted friendships.
func (c *Client) Friends(ctx context.Context) ([]domain.FriendshipEdge, error) {
	var out []domain.FriendshipEdge
	err := c.do(ctx, http.MethodGet, "/friends", nil, &out)
	return out, err
}

// PendingRequests returns requests sent to the current user.
func (c *Client) PendingRequests(ctx context.Context) ([]domain.FriendshipEdge, error) {
	var out []domain.FriendshipEdge
	err := c.do(ctx, http.MethodGet, "/friends/pending", nil, &out)
	return out, err
}

// SentRequests returns requests the current user sent.
func (c *Client) SentRequests(ctx context.Context) ([]domain.FriendshipEdge, error) {
	var out []domain.FriendshipEdge
	err := c.do(ctx, http.MethodGet, "/friends/sent", nil, &out)
	return out, err
}

// SendFriendRequest asks the authority to open a pending friendship toward
// friendID.
func (c *Client) SendFriendRequest(ctx context.Context, friendID string) error {
	return c.do(ctx, http.MethodPost, "/friends/request", map[string]string{"friend_id": friendID}, nil)
}

// AcceptFriendRequest accepts the friendship edge with the given id.
func (c *Client) AcceptFriendRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/friends/"+url.PathEscape(id)+"/accept", nil, nil)
}

// RejectFriendRequest rejects the friendship edge with the given id.
func (c *Client) RejectFriendRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/friends/"+url.PathEscape(id)+"/reject", nil, nil)
}

// RemoveFriend deletes the friendship edge with the given id.
func (c *Client) RemoveFriend(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/friends/"+url.PathEscape(id), nil, nil)
}

// Groups returns the groups the current user belongs to.
func (c *Client) Groups(ctx context.Context) ([]domain.Group, error) {
	var out []domain.Group
	err := c.do(ctx, http.MethodGet, "/groups", nil, &out)
	return out, err
}

// CreateGroup creates a group owned by the current user.
func (c *Client) CreateGroup(ctx context.Context, name string) (domain.Group, error) {
	var out domain.Group
	err := c.do(ctx, http.MethodPost, "/groups", map[string]string{"name": name}, &out)
	return out, err
}

// Group returns one group by id.
func (c *Client) Group(ctx context.Context, id string) (domain.Group, error) {
	var out domain.Group
	err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(id), nil, &out)
	return out, err
}

// RenameGroup changes a group's name.
func (c *Client) RenameGroup(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPut, "/groups/"+url.PathEscape(id), map[string]string{"name": name}, nil)
}

// DeleteGroup deletes a group and everything in it.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/groups/"+url.PathEscape(id), nil, nil)
}

// AddMember adds userID to a group.
func (c *Client) AddMember(ctx context.Context, groupID, userID string) error {
	return c.do(ctx, http.MethodPost, "/groups/"+url.PathEscape(groupID)+"/members", map[string]string{"user_id": userID}, nil)
}

// RemoveMember removes userID from a group.
func (c *Client) RemoveMember(ctx context.Context, groupID, userID string) error {
	return c.do(ctx, http.MethodDelete, "/groups/"+url.PathEscape(groupID)+"/members/"+url.PathEscape(userID), nil, nil)
}

// GroupExpenses returns a group's expenses.
func (c *Client) GroupExpenses(ctx context.Context, groupID string) ([]domain.Expense, error) {
	var out []domain.Expense
	err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/expenses", nil, &out)
	return out, err
}

// ExpenseSplitInput is one member's share in a custom split.
type ExpenseSplitInput struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// AddExpenseRequest is the payload for creating an expense. SplitsType is
// "equal" (authority divides across members) or "custom" (Splits must sum
// to Amount; the authority validates).
type AddExpenseRequest struct {
	PaidBy      string              `json:"paid_by"`
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description"`
	SplitsType  string              `json:"splits_type"`
	Splits      []ExpenseSplitInput `json:"splits,omitempty"`
}

// AddExpense logs an expense in a group. The authority recomputes the
// group's debt edges from scratch afterward.
func (c *Client) AddExpense(ctx context.Context, groupID string, req AddExpenseRequest) (domain.Expense, error) {
	var out domain.Expense
	err := c.do(ctx, http.MethodPost, "/groups/"+url.PathEscape(groupID)+"/expenses", req, &out)
	return out, err
}

// DeleteExpense removes an expense; downstream debt edges are recomputed
// by the authority.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil)
}

// GroupBalances returns debt edges scoped to one group.
func (c *Client) GroupBalances(ctx context.Context, groupID string) ([]domain.DebtEdge, error) {
	var out []domain.DebtEdge
	err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/balances", nil, &out)
	return out, err
}

// GroupSettlements returns a group's settlement history.
func (c *Client) GroupSettlements(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	var out []domain.Settlement
	err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/settlements", nil, &out)
	return out, err
}

// SettleRequest is the payload for recording a settlement. Amounts are
// forwarded as entered; partial payments are legitimate and overpayment
// checks belong to the authority.
type SettleRequest struct {
	PaidBy string          `json:"paid_by"`
	PaidTo string          `json:"paid_to"`
	Amount decimal.Decimal `json:"amount"`
}

// Settle records a settlement in a group.
func (c *Client) Settle(ctx context.Context, groupID string, req SettleRequest) (domain.Settlement, error) {
	var out domain.Settlement
	err := c.do(ctx, http.MethodPost, "/groups/"+url.PathEscape(groupID)+"/settle", req, &out)
	return out, err
}

// DeleteSettlement removes a settlement record.
func (c *Client) DeleteSettlement(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/settlements/"+url.PathEscape(id), nil, nil)
}
