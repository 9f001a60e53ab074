// Package testutil provides shared test fakes.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"

	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

// GroupState is one group's records inside the fake authority.
type GroupState struct {
	Group       domain.Group
	Expenses    []domain.Expense
	Balances    []domain.DebtEdge
	Settlements []domain.Settlement
}

// Authority is an in-memory stand-in for the ledger service. It implements
// the REST surface the client consumes, wraps responses in the real
// envelope, and emulates the one piece of server math the client must
// tolerate: recording a settlement that exactly cancels a debt edge makes
// that edge disappear from the next balance snapshot.
//
// State is mutated directly by tests (it is the authority, after all) and
// by the mutation endpoints. Not safe for mutation from multiple tests at
// once; each test builds its own.
type Authority struct {
	mu sync.Mutex

	Users       []domain.User
	Balances    []domain.DebtEdge
	Settlements []domain.Settlement
	Friends     []domain.FriendshipEdge
	Pending     []domain.FriendshipEdge
	Sent        []domain.FriendshipEdge
	Groups      map[string]*GroupState

	// failures maps "METHOD /api/path" to a forced error message.
	failures   map[string]string
	failStatus map[string]int
	// Requests counts served requests per "METHOD /api/path".
	Requests map[string]int

	srv *httptest.Server
}

// NewAuthority starts a fake authority. Callers own Close.
func NewAuthority() *Authority {
	a := &Authority{
		Groups:     make(map[string]*GroupState),
		failures:   make(map[string]string),
		failStatus: make(map[string]int),
		Requests:   make(map[string]int),
	}
	a.srv = httptest.NewServer(a.handler())
	return a
}

// URL returns the base URL to point the client at.
func (a *Authority) URL() string { return a.srv.URL }

// Close shuts the server down.
func (a *Authority) Close() { a.srv.Close() }

// FailWith forces every subsequent request matching "METHOD /api/path" to
// answer the given status and error message. Pass msg "" for an
// error-free failure body (exercises the generic fallback).
func (a *Authority) FailWith(key, msg string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[key] = msg
	a.failStatus[key] = status
}

// Recover clears a forced failure.
func (a *Authority) Recover(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.failures, key)
	delete(a.failStatus, key)
}

// RequestCount returns how many times "METHOD /api/path" was served.
func (a *Authority) RequestCount(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Requests[key]
}

func (a *Authority) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.Users)
	})
	mux.HandleFunc("GET /api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.currentUser())
	})
	mux.HandleFunc("PUT /api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		u := a.currentUser()
		u.Name = body.Name
		if len(a.Users) > 0 {
			a.Users[0] = u
		}
		a.ok(w, u)
	})
	mux.HandleFunc("GET /api/users/balances", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.Balances)
	})
	mux.HandleFunc("GET /api/users/settlements", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.Settlements)
	})

	mux.HandleFunc("GET /api/friends", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.Friends)
	})
	mux.HandleFunc("GET /api/friends/pending", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.Pending)
	})
	mux.HandleFunc("GET /api/friends/sent", func(w http.ResponseWriter, r *http.Request) {
		a.ok(w, a.Sent)
	})
	mux.HandleFunc("POST /api/friends/request", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FriendID string `json:"friend_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		peer := a.findUser(body.FriendID)
		edge := domain.FriendshipEdge{ID: uuid.NewString(), User: &peer, Status: domain.FriendStatusPending}
		a.Sent = append(a.Sent, edge)
		a.ok(w, edge)
	})
	mux.HandleFunc("PUT /api/friends/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if e, ok := removeEdge(&a.Pending, id); ok {
			e.Status = domain.FriendStatusAccepted
			a.Friends = append(a.Friends, e)
			a.ok(w, map[string]string{"message": "friend request accepted"})
			return
		}
		a.fail(w, http.StatusNotFound, "friend request not found")
	})
	mux.HandleFunc("PUT /api/friends/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := removeEdge(&a.Pending, r.PathValue("id")); ok {
			a.ok(w, map[string]string{"message": "friend request rejected"})
			return
		}
		a.fail(w, http.StatusNotFound, "friend request not found")
	})
	mux.HandleFunc("DELETE /api/friends/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := removeEdge(&a.Friends, id); ok {
			a.ok(w, map[string]string{"message": "friend removed"})
			return
		}
		if _, ok := removeEdge(&a.Sent, id); ok {
			a.ok(w, map[string]string{"message": "friend request cancelled"})
			return
		}
		a.fail(w, http.StatusNotFound, "friendship not found")
	})

	mux.HandleFunc("GET /api/groups", func(w http.ResponseWriter, r *http.Request) {
		groups := make([]domain.Group, 0, len(a.Groups))
		for _, g := range a.Groups {
			groups = append(groups, g.Group)
		}
		a.ok(w, groups)
	})
	mux.HandleFunc("POST /api/groups", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		owner := a.currentUser().ID
		g := domain.Group{ID: uuid.NewString(), Name: body.Name, CreatedBy: owner, Members: []string{owner}}
		a.Groups[g.ID] = &GroupState{Group: g}
		a.ok(w, g)
	})
	mux.HandleFunc("GET /api/groups/{id}", func(w http.ResponseWriter, r *http.Request) {
		if g, ok := a.Groups[r.PathValue("id")]; ok {
			a.ok(w, g.Group)
			return
		}
		a.fail(w, http.StatusNotFound, "group not found")
	})
	mux.HandleFunc("PUT /api/groups/{id}", func(w http.ResponseWriter, r *http.Request) {
		g, ok := a.Groups[r.PathValue("id")]
		if !ok {
			a.fail(w, http.StatusNotFound, "group not found")
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.Group.Name = body.Name
		a.ok(w, g.Group)
	})
	mux.HandleFunc("DELETE /api/groups/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := a.Groups[id]; !ok {
			a.fail(w, http.StatusNotFound, "group not found")
			return
		}
		delete(a.Groups, id)
		a.ok(w, map[string]string{"message": "group deleted"})
	})
	mux.HandleFunc("POST /api/groups/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		g, ok := a.Groups[r.PathValue("id")]
		if !ok {
			a.fail(w, http.StatusNotFound, "group not found")
			return
		}
		var body struct {
			UserID string `json:"user_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.Group.Members = append(g.Group.Members, body.UserID)
		a.ok(w, g.Group)
	})
	mux.HandleFunc("DELETE /api/groups/{id}/members/{userID}", func(w http.ResponseWriter, r *http.Request) {
		g, ok := a.Groups[r.PathValue("id")]
		if !ok {
			a.fail(w, http.StatusNotFound, "group not found")
			return
		}
		uid := r.PathValue("userID")
		if uid == g.Group.CreatedBy {
			a.fail(w, http.StatusBadRequest, "cannot remove the group owner")
			return
		}
		members := g.Group.Members[:0]
		for _, m := range g.Group.Members {
			if m != uid {
				members = append(members, m)
			}
		}
		g.Group.Members = members
		a.ok(w, g.Group)
	})

	mux.HandleFunc("GET /api/groups/{id}/expenses", func(w http.ResponseWriter, r *http.Request) {
		if g, ok := a.Groups[r.PathValue("id")]; ok {
			a.ok(w, g.Expenses)
			return
		}
		a.fail(w, http.StatusNotFound, "group not found")
	})
	mux.HandleFunc("POST /api/groups/{id}/expenses", func(w http.ResponseWriter, r *http.Request) {
		g, ok := a.Groups[r.PathValue("id")]
		if !ok {
			a.fail(w, http.StatusNotFound, "group not found")
			return
		}
		var exp domain.Expense
		_ = json.NewDecoder(r.Body).Decode(&exp)
		exp.ID = uuid.NewString()
		exp.GroupID = g.Group.ID
		g.Expenses = append(g.Expenses, exp)
		a.ok(w, exp)
	})
	mux.HandleFunc("DELETE /api/expenses/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		for _, g := range a.Groups {
			kept := g.Expenses[:0]
			found := false
			for _, e := range g.Expenses {
				if e.ID == id {
					found = true
					continue
				}
				kept = append(kept, e)
			}
			g.Expenses = kept
			if found {
				a.ok(w, map[string]string{"message": "expense deleted"})
				return
			}
		}
		a.fail(w, http.StatusNotFound, "expense not found")
	})

	mux.HandleFunc("GET /api/groups/{id}/balances", func(w http.ResponseWriter, r *http.Request) {
		if g, ok := a.Groups[r.PathValue("id")]; ok {
			a.ok(w, g.Balances)
			return
		}
		a.fail(w, http.StatusNotFound, "group not found")
	})
	mux.HandleFunc("GET /api/groups/{id}/settlements", func(w http.ResponseWriter, r *http.Request) {
		if g, ok := a.Groups[r.PathValue("id")]; ok {
			a.ok(w, g.Settlements)
			return
		}
		a.fail(w, http.StatusNotFound, "group not found")
	})
	mux.HandleFunc("POST /api/groups/{id}/settle", func(w http.ResponseWriter, r *http.Request) {
		g, ok := a.Groups[r.PathValue("id")]
		if !ok {
			a.fail(w, http.StatusNotFound, "group not found")
			return
		}
		var s domain.Settlement
		_ = json.NewDecoder(r.Body).Decode(&s)
		s.ID = uuid.NewString()
		s.GroupID = g.Group.ID
		g.Settlements = append(g.Settlements, s)
		a.Settlements = append(a.Settlements, s)
		// Server-side netting: an exact settlement erases the edge from the
		// next snapshot, both group-scoped and global.
		g.Balances = dropSettledEdge(g.Balances, s)
		a.Balances = dropSettledEdge(a.Balances, s)
		a.ok(w, s)
	})
	mux.HandleFunc("DELETE /api/settlements/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		found := false
		kept := a.Settlements[:0]
		for _, s := range a.Settlements {
			if s.ID == id {
				found = true
				continue
			}
			kept = append(kept, s)
		}
		a.Settlements = kept
		for _, g := range a.Groups {
			gk := g.Settlements[:0]
			for _, s := range g.Settlements {
				if s.ID == id {
					found = true
					continue
				}
				gk = append(gk, s)
			}
			g.Settlements = gk
		}
		if found {
			a.ok(w, map[string]string{"message": "settlement deleted"})
			return
		}
		a.fail(w, http.StatusNotFound, "settlement not found")
	})

	return a.record(mux)
}

// record counts requests, applies forced failures, and serializes handler
// execution so tests can mutate state between requests.
func (a *Authority) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		a.mu.Lock()
		a.Requests[key]++
		msg, forced := a.failures[key]
		status := a.failStatus[key]
		if forced {
			a.mu.Unlock()
			if status == 0 {
				status = http.StatusInternalServerError
			}
			writeEnvelope(w, status, map[string]any{"success": false, "error": msg})
			return
		}
		defer a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (a *Authority) currentUser() domain.User {
	if len(a.Users) == 0 {
		return domain.User{}
	}
	return a.Users[0]
}

func (a *Authority) findUser(id string) domain.User {
	for _, u := range a.Users {
		if u.ID == id {
			return u
		}
	}
	return domain.User{ID: id}
}

func (a *Authority) ok(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (a *Authority) fail(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, map[string]any{"success": false, "error": msg})
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func removeEdge(edges *[]domain.FriendshipEdge, id string) (domain.FriendshipEdge, bool) {
	for i, e := range *edges {
		if e.ID == id {
			*edges = append((*edges)[:i], (*edges)[i+1:]...)
			return e, true
		}
	}
	return domain.FriendshipEdge{}, false
}

func dropSettledEdge(edges []domain.DebtEdge, s domain.Settlement) []domain.DebtEdge {
	kept := edges[:0]
	for _, e := range edges {
		if e.FromUser == s.PaidBy && e.ToUser == s.PaidTo && e.Amount.Equal(s.Amount) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
