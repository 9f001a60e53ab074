// Package coordinator issues mutation commands against the authority and
// re-synchronizes all derived state afterward.
//
// Every user action follows the same machine: idle -> submitting ->
// success (full snapshot re-fetch) or failure (error surfaced, nothing
// changed locally). There is no optimistic write and no incremental patch:
// derived views are always rebuilt from the authority's latest snapshot.
//
// Independent actions may be in flight at the same time, but the same
// entity (a friendship edge, a group, an expense, a settlement) can only
// carry one pending action, which is how duplicate submissions of the same
// command are prevented.
package coordinator

import (
	"errors"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/ujjwal0563/splitwise-cli/internal/api"
	"github.com/ujjwal0563/splitwise-cli/internal/config"
)

// ErrActionPending is returned when an entity already has a command in
// flight.
var ErrActionPending = errors.New("an action for this item is already in progress")

// ErrAborted is returned when the user declines a destructive action's
// confirmation prompt. The command is never issued.
var ErrAborted = errors.New("aborted")

// ErrNotFound wraps the authority's not-found answer on a detail view so
// callers can fall back to a list view instead of rendering a broken page.
var ErrNotFound = errors.New("not found")

// Confirmer gates destructive actions. Deletions cascade server-side
// (expenses invalidate debt edges, groups take everything with them), so
// the confirmation step is part of the contract, not a UI nicety.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// AutoConfirm approves everything. For --yes flags and tests.
var AutoConfirm = ConfirmerFunc(func(string) bool { return true })

// Coordinator is the single entry point for view loads and mutations.
type Coordinator struct {
	client  *api.Client
	session config.Session
	confirm Confirmer

	mu       sync.Mutex
	inflight map[string]string // entity id -> action id
}

// New builds a Coordinator. The session is read-only: the coordinator
// consults it for the current user id and never changes it.
func New(client *api.Client, session config.Session, confirm Confirmer) *Coordinator {
	if confirm == nil {
		confirm = AutoConfirm
	}
	return &Coordinator{
		client:   client,
		session:  session,
		confirm:  confirm,
		inflight: make(map[string]string),
	}
}

// CurrentUser returns the session's user id.
func (c *Coordinator) CurrentUser() string {
	return c.session.UserID()
}

// Pending reports whether entity has a command in flight. The CLI uses it
// to disable the triggering control for that entity.
func (c *Coordinator) Pending(entity string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[entity]
	return ok
}

// begin moves an entity's action to submitting. Fails when the same
// entity already has one in flight.
func (c *Coordinator) begin(verb, entity string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.inflight[entity]; ok {
		glog.Warningf("coordinator: %s rejected for %s, action %s still pending", verb, entity, prev)
		return "", ErrActionPending
	}
	action := uuid.NewString()
	c.inflight[entity] = action
	glog.V(1).Infof("coordinator: %s %s action=%s", verb, entity, action)
	return action, nil
}

// end returns an entity to idle.
func (c *Coordinator) end(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, entity)
}
