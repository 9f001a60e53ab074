package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/ujjwal0563/splitwise-cli/internal/api"
	"github.com/ujjwal0563/splitwise-cli/internal/balance"
	"github.com/ujjwal0563/splitwise-cli/internal/directory"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
	"github.com/ujjwal0563/splitwise-cli/internal/relations"
)

// DashboardSnapshot is the derived state behind the balance view.
type DashboardSnapshot struct {
	Balances    balance.Summary
	Settlements []domain.Settlement
	Roster      *directory.Directory
	// Degraded is set when any fetch in the batch failed; all derived data
	// is then empty defaults rather than a partial mix.
	Degraded bool
}

// FriendsSnapshot is the derived state behind the friends view.
type FriendsSnapshot struct {
	Graph    *relations.Graph
	Roster   *directory.Directory
	Degraded bool
}

// GroupSnapshot is the derived state behind one group's detail view.
type GroupSnapshot struct {
	Group       domain.Group
	Expenses    []domain.Expense
	Balances    []domain.DebtEdge
	Settlements []domain.Settlement
	Roster      *directory.Directory
	Degraded    bool
}

// fetchAll runs the batch concurrently and joins on an all-or-nothing
// barrier: it waits for every fetch even after one fails, and reports
// success only when all succeeded. Failures are logged; recovery is the
// caller rendering empty defaults.
func fetchAll(ctx context.Context, fetches map[string]func(context.Context) error) bool {
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := false

	for name, fetch := range fetches {
		wg.Add(1)
		go func(name string, fetch func(context.Context) error) {
			defer wg.Done()
			if err := fetch(ctx); err != nil {
				glog.Warningf("coordinator: fetch %s failed: %v", name, err)
				mu.Lock()
				failed = true
				mu.Unlock()
			}
		}(name, fetch)
	}
	wg.Wait()
	return !failed
}

// LoadDashboard fetches balances, settlement history, and the roster in
// parallel and aggregates them for the current user. Never returns an
// error: a failed batch yields a degraded snapshot with empty data.
func (c *Coordinator) LoadDashboard(ctx context.Context) DashboardSnapshot {
	var (
		edges       []domain.DebtEdge
		settlements []domain.Settlement
		users       []domain.User
	)
	ok := fetchAll(ctx, map[string]func(context.Context) error{
		"balances": func(ctx context.Context) error {
			var err error
			edges, err = c.client.UserBalances(ctx)
			return err
		},
		"settlements": func(ctx context.Context) error {
			var err error
			settlements, err = c.client.UserSettlements(ctx)
			return err
		},
		"users": func(ctx context.Context) error {
			var err error
			users, err = c.client.Users(ctx)
			return err
		},
	})
	if !ok {
		// Discard partial results entirely.
		return DashboardSnapshot{
			Balances: balance.Aggregate(c.CurrentUser(), nil),
			Roster:   directory.New(nil),
			Degraded: true,
		}
	}
	return DashboardSnapshot{
		Balances:    balance.Aggregate(c.CurrentUser(), edges),
		Settlements: settlements,
		Roster:      directory.New(users),
	}
}

// LoadFriends fetches the three friendship sets plus the roster and builds
// the relationship graph.
func (c *Coordinator) LoadFriends(ctx context.Context) FriendsSnapshot {
	var (
		friends, incoming, outgoing []domain.FriendshipEdge
		users                       []domain.User
	)
	ok := fetchAll(ctx, map[string]func(context.Context) error{
		"friends": func(ctx context.Context) error {
			var err error
			friends, err = c.client.Friends(ctx)
			return err
		},
		"pending": func(ctx context.Context) error {
			var err error
			incoming, err = c.client.PendingRequests(ctx)
			return err
		},
		"sent": func(ctx context.Context) error {
			var err error
			outgoing, err = c.client.SentRequests(ctx)
			return err
		},
		"users": func(ctx context.Context) error {
			var err error
			users, err = c.client.Users(ctx)
			return err
		},
	})
	if !ok {
		roster := directory.New(nil)
		return FriendsSnapshot{
			Graph:    relations.New(c.CurrentUser(), nil, nil, nil, roster),
			Roster:   roster,
			Degraded: true,
		}
	}
	roster := directory.New(users)
	return FriendsSnapshot{
		Graph:  relations.New(c.CurrentUser(), friends, incoming, outgoing, roster),
		Roster: roster,
	}
}

// Profile fetches the current user's record. Detail reads with nothing to
// merge are not batched; the error passes through for the caller to show.
func (c *Coordinator) Profile(ctx context.Context) (domain.User, error) {
	return c.client.Profile(ctx)
}

// Roster fetches the full user list.
func (c *Coordinator) Roster(ctx context.Context) ([]domain.User, error) {
	return c.client.Users(ctx)
}

// LoadGroups fetches the group list, degrading to empty on failure.
func (c *Coordinator) LoadGroups(ctx context.Context) ([]domain.Group, bool) {
	groups, err := c.client.Groups(ctx)
	if err != nil {
		glog.Warningf("coordinator: fetch groups failed: %v", err)
		return nil, true
	}
	return groups, false
}

// LoadGroup fetches one group's detail batch. A missing group is reported
// as ErrNotFound so the caller can navigate back to the list; any other
// fetch failure degrades to empty data like the other views.
func (c *Coordinator) LoadGroup(ctx context.Context, groupID string) (GroupSnapshot, error) {
	var (
		group       domain.Group
		expenses    []domain.Expense
		edges       []domain.DebtEdge
		settlements []domain.Settlement
		users       []domain.User
		notFound    bool
	)
	ok := fetchAll(ctx, map[string]func(context.Context) error{
		"group": func(ctx context.Context) error {
			var err error
			group, err = c.client.Group(ctx, groupID)
			if api.IsNotFound(err) {
				notFound = true
			}
			return err
		},
		"expenses": func(ctx context.Context) error {
			var err error
			expenses, err = c.client.GroupExpenses(ctx, groupID)
			return err
		},
		"balances": func(ctx context.Context) error {
			var err error
			edges, err = c.client.GroupBalances(ctx, groupID)
			return err
		},
		"settlements": func(ctx context.Context) error {
			var err error
			settlements, err = c.client.GroupSettlements(ctx, groupID)
			return err
		},
		"users": func(ctx context.Context) error {
			var err error
			users, err = c.client.Users(ctx)
			return err
		},
	})
	if notFound {
		return GroupSnapshot{}, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	if !ok {
		return GroupSnapshot{Roster: directory.New(nil), Degraded: true}, nil
	}
	return GroupSnapshot{
		Group:       group,
		Expenses:    expenses,
		Balances:    edges,
		Settlements: settlements,
		Roster:      directory.New(users),
	}, nil
}
