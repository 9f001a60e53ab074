package coordinator

import (
	"context"
	"fmt"

	"github.com/ujjwal0563/splitwise-cli/internal/api"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
	"github.com/ujjwal0563/splitwise-cli/internal/settle"
)

// mutate runs one command under the per-entity in-flight guard. On failure
// the error is returned untouched and no local state has changed; the
// caller keeps rendering the snapshot it already had.
func (c *Coordinator) mutate(verb, entity string, run func() error) error {
	if _, err := c.begin(verb, entity); err != nil {
		return err
	}
	defer c.end(entity)
	return run()
}

// SendFriendRequest opens a pending friendship toward peerID and returns
// the refreshed friends view.
func (c *Coordinator) SendFriendRequest(ctx context.Context, peerID string) (FriendsSnapshot, error) {
	err := c.mutate("send friend request", peerID, func() error {
		return c.client.SendFriendRequest(ctx, peerID)
	})
	if err != nil {
		return FriendsSnapshot{}, err
	}
	return c.LoadFriends(ctx), nil
}

// AcceptFriendRequest accepts the request with the given edge id.
func (c *Coordinator) AcceptFriendRequest(ctx context.Context, edgeID string) (FriendsSnapshot, error) {
	err := c.mutate("accept friend request", edgeID, func() error {
		return c.client.AcceptFriendRequest(ctx, edgeID)
	})
	if err != nil {
		return FriendsSnapshot{}, err
	}
	return c.LoadFriends(ctx), nil
}

// RejectFriendRequest rejects the request with the given edge id.
func (c *Coordinator) RejectFriendRequest(ctx context.Context, edgeID string) (FriendsSnapshot, error) {
	err := c.mutate("reject friend request", edgeID, func() error {
		return c.client.RejectFriendRequest(ctx, edgeID)
	})
	if err != nil {
		return FriendsSnapshot{}, err
	}
	return c.LoadFriends(ctx), nil
}

// RemoveFriend deletes the friendship edge after confirmation. peerName is
// only for the prompt.
func (c *Coordinator) RemoveFriend(ctx context.Context, edgeID, peerName string) (FriendsSnapshot, error) {
	if !c.confirm.Confirm(fmt.Sprintf("Remove %s from your friends?", peerName)) {
		return FriendsSnapshot{}, ErrAborted
	}
	err := c.mutate("remove friend", edgeID, func() error {
		return c.client.RemoveFriend(ctx, edgeID)
	})
	if err != nil {
		return FriendsSnapshot{}, err
	}
	return c.LoadFriends(ctx), nil
}

// CreateGroup creates a group and returns it with the refreshed list.
func (c *Coordinator) CreateGroup(ctx context.Context, name string) (domain.Group, []domain.Group, error) {
	var created domain.Group
	err := c.mutate("create group", "group:new", func() error {
		var err error
		created, err = c.client.CreateGroup(ctx, name)
		return err
	})
	if err != nil {
		return domain.Group{}, nil, err
	}
	groups, _ := c.LoadGroups(ctx)
	return created, groups, nil
}

// RenameGroup renames a group and returns the refreshed detail view.
func (c *Coordinator) RenameGroup(ctx context.Context, groupID, name string) (GroupSnapshot, error) {
	err := c.mutate("rename group", groupID, func() error {
		return c.client.RenameGroup(ctx, groupID, name)
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// DeleteGroup deletes a group after confirmation and returns the refreshed
// group list.
func (c *Coordinator) DeleteGroup(ctx context.Context, groupID, name string) ([]domain.Group, error) {
	if !c.confirm.Confirm(fmt.Sprintf("Delete group %q? This removes its expenses and settlements.", name)) {
		return nil, ErrAborted
	}
	err := c.mutate("delete group", groupID, func() error {
		return c.client.DeleteGroup(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	groups, _ := c.LoadGroups(ctx)
	return groups, nil
}

// AddMember adds a user to a group and returns the refreshed detail view.
func (c *Coordinator) AddMember(ctx context.Context, groupID, userID string) (GroupSnapshot, error) {
	err := c.mutate("add member", groupID+"/"+userID, func() error {
		return c.client.AddMember(ctx, groupID, userID)
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// RemoveMember removes a user from a group after confirmation.
func (c *Coordinator) RemoveMember(ctx context.Context, groupID, userID, userName string) (GroupSnapshot, error) {
	if !c.confirm.Confirm(fmt.Sprintf("Remove %s from this group?", userName)) {
		return GroupSnapshot{}, ErrAborted
	}
	err := c.mutate("remove member", groupID+"/"+userID, func() error {
		return c.client.RemoveMember(ctx, groupID, userID)
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// AddExpense logs an expense and returns the refreshed detail view; the
// authority recomputes the group's debt edges before we re-read them.
func (c *Coordinator) AddExpense(ctx context.Context, groupID string, req api.AddExpenseRequest) (GroupSnapshot, error) {
	err := c.mutate("add expense", groupID+"/expense:new", func() error {
		_, err := c.client.AddExpense(ctx, groupID, req)
		return err
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// DeleteExpense removes an expense after confirmation.
func (c *Coordinator) DeleteExpense(ctx context.Context, groupID, expenseID, description string) (GroupSnapshot, error) {
	if !c.confirm.Confirm(fmt.Sprintf("Delete expense %q? Balances will be recomputed.", description)) {
		return GroupSnapshot{}, ErrAborted
	}
	err := c.mutate("delete expense", expenseID, func() error {
		return c.client.DeleteExpense(ctx, expenseID)
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// RecordSettlement validates a settlement form locally, submits it, and
// returns the refreshed detail view. The amount goes to the authority
// exactly as entered; partial settlements are legitimate.
func (c *Coordinator) RecordSettlement(ctx context.Context, groupID string, form settle.Form) (GroupSnapshot, error) {
	if err := form.Validate(); err != nil {
		return GroupSnapshot{}, err
	}
	err := c.mutate("record settlement", groupID+"/settle:"+form.PaidBy+">"+form.PaidTo, func() error {
		_, err := c.client.Settle(ctx, groupID, api.SettleRequest{
			PaidBy: form.PaidBy,
			PaidTo: form.PaidTo,
			Amount: form.Amount,
		})
		return err
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// DeleteSettlement removes a settlement record after confirmation.
func (c *Coordinator) DeleteSettlement(ctx context.Context, groupID, settlementID string) (GroupSnapshot, error) {
	if !c.confirm.Confirm("Delete this settlement record?") {
		return GroupSnapshot{}, ErrAborted
	}
	err := c.mutate("delete settlement", settlementID, func() error {
		return c.client.DeleteSettlement(ctx, settlementID)
	})
	if err != nil {
		return GroupSnapshot{}, err
	}
	return c.LoadGroup(ctx, groupID)
}

// UpdateProfile renames the current user and returns the updated record.
func (c *Coordinator) UpdateProfile(ctx context.Context, name string) (domain.User, error) {
	var updated domain.User
	err := c.mutate("update profile", "profile", func() error {
		var err error
		updated, err = c.client.UpdateProfile(ctx, name)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return updated, nil
}
