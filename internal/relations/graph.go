// Package relations classifies every user relative to the current user and
// scopes people-search to strangers.
package relations

import (
	"sort"
	"strings"

	"github.com/golang/glog"

	"github.com/ujjwal0563/splitwise-cli/internal/directory"
	"github.com/ujjwal0563/splitwise-cli/internal/domain"
)

// Relation is the classification of a user relative to the current user.
type Relation int

const (
	// RelationSelf is the current user.
	RelationSelf Relation = iota + 1
	// RelationFriend is an accepted friendship.
	RelationFriend
	// RelationPendingIncoming is a request the current user received.
	RelationPendingIncoming
	// RelationPendingOutgoing is a request the current user sent.
	RelationPendingOutgoing
	// RelationUnrelated is everyone else.
	RelationUnrelated
)

func (r Relation) String() string {
	switch r {
	case RelationSelf:
		return "self"
	case RelationFriend:
		return "friend"
	case RelationPendingIncoming:
		return "pending_incoming"
	case RelationPendingOutgoing:
		return "pending_outgoing"
	case RelationUnrelated:
		return "unrelated"
	default:
		return "unknown"
	}
}

// Graph holds the relationship sets for one snapshot.
//
// The authority guarantees at most one friendship edge per peer, so the
// friend/pending/sent sets should never overlap. The client does not trust
// that: Classify resolves any overlap by a fixed precedence (self > friend >
// pending_incoming > pending_outgoing) and logs the anomaly, because
// presentation code assumes the sets are exclusive.
type Graph struct {
	currentUser string
	friends     map[string]domain.FriendshipEdge
	incoming    map[string]domain.FriendshipEdge
	outgoing    map[string]domain.FriendshipEdge
	roster      *directory.Directory
}

// New builds a Graph from one snapshot of the friends endpoints plus the
// full user roster.
func New(currentUser string, friends, incoming, outgoing []domain.FriendshipEdge, roster *directory.Directory) *Graph {
	g := &Graph{
		currentUser: currentUser,
		friends:     indexByPeer(friends),
		incoming:    indexByPeer(incoming),
		outgoing:    indexByPeer(outgoing),
		roster:      roster,
	}
	g.logOverlaps()
	return g
}

func indexByPeer(edges []domain.FriendshipEdge) map[string]domain.FriendshipEdge {
	m := make(map[string]domain.FriendshipEdge, len(edges))
	for _, e := range edges {
		peer := e.PeerID()
		if peer == "" {
			glog.Warningf("relations: dropping friendship edge %s with no peer user", e.ID)
			continue
		}
		m[peer] = e
	}
	return m
}

func (g *Graph) logOverlaps() {
	for peer := range g.incoming {
		if _, ok := g.friends[peer]; ok {
			glog.Warningf("relations: peer %s is both friend and pending_incoming; treating as friend", peer)
		}
	}
	for peer := range g.outgoing {
		if _, ok := g.friends[peer]; ok {
			glog.Warningf("relations: peer %s is both friend and pending_outgoing; treating as friend", peer)
		}
		if _, ok := g.incoming[peer]; ok {
			glog.Warningf("relations: peer %s is both pending_incoming and pending_outgoing; treating as pending_incoming", peer)
		}
	}
}

// Classify returns the relation of id to the current user. Total: any id,
// known or not, gets a classification.
func (g *Graph) Classify(id string) Relation {
	switch {
	case id == g.currentUser:
		return RelationSelf
	case g.has(g.friends, id):
		return RelationFriend
	case g.has(g.incoming, id):
		return RelationPendingIncoming
	case g.has(g.outgoing, id):
		return RelationPendingOutgoing
	default:
		return RelationUnrelated
	}
}

func (g *Graph) has(m map[string]domain.FriendshipEdge, id string) bool {
	_, ok := m[id]
	return ok
}

// Edge returns the friendship edge connecting the current user to peer, if
// any. The edge id is what the mutation endpoints want.
func (g *Graph) Edge(peer string) (domain.FriendshipEdge, bool) {
	for _, m := range []map[string]domain.FriendshipEdge{g.friends, g.incoming, g.outgoing} {
		if e, ok := m[peer]; ok {
			return e, true
		}
	}
	return domain.FriendshipEdge{}, false
}

// Friends returns the accepted-friend edges sorted by peer display name.
func (g *Graph) Friends() []domain.FriendshipEdge { return g.sorted(g.friends) }

// Incoming returns pending requests sent to the current user.
func (g *Graph) Incoming() []domain.FriendshipEdge { return g.sorted(g.incoming) }

// Outgoing returns pending requests the current user sent.
func (g *Graph) Outgoing() []domain.FriendshipEdge { return g.sorted(g.outgoing) }

func (g *Graph) sorted(m map[string]domain.FriendshipEdge) []domain.FriendshipEdge {
	out := make([]domain.FriendshipEdge, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := g.roster.NameOf(out[i].PeerID()), g.roster.NameOf(out[j].PeerID())
		if ni != nj {
			return ni < nj
		}
		return out[i].PeerID() < out[j].PeerID()
	})
	return out
}

// Search finds users available for a new friend request: case-insensitive
// substring match on name or email, restricted to unrelated users, capped
// at limit results. The cap is a presentation parameter; the exclusion of
// related users is not negotiable. A blank query matches nothing.
func (g *Graph) Search(query string, limit int) []domain.User {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || limit <= 0 {
		return nil
	}

	matched := make([]domain.User, 0, limit)
	for _, u := range g.roster.Users() {
		if g.Classify(u.ID) != RelationUnrelated {
			continue
		}
		if strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Email), query) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
