// Package directory provides a flat lookup of known users by id.
package directory

import "github.com/ujjwal0563/splitwise-cli/internal/domain"

// unknownName is returned for ids with no usable display form at all.
const unknownName = "Unknown"

// Directory resolves user ids to display names. Lookups never fail: ids
// unknown to the roster still produce a usable string.
type Directory struct {
	byID map[string]domain.User
}

// New builds a Directory from a user roster. Later duplicates of the same
// id win, matching how the authority would resend an updated profile.
func New(users []domain.User) *Directory {
	d := &Directory{byID: make(map[string]domain.User, len(users))}
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		d.byID[u.ID] = u
	}
	return d
}

// Lookup returns the full user record for id, if known.
func (d *Directory) Lookup(id string) (domain.User, bool) {
	u, ok := d.byID[id]
	return u, ok
}

// Len reports the number of known users.
func (d *Directory) Len() int {
	return len(d.byID)
}

// Users returns the full roster in unspecified order.
func (d *Directory) Users() []domain.User {
	out := make([]domain.User, 0, len(d.byID))
	for _, u := range d.byID {
		out = append(out, u)
	}
	return out
}

// NameOf returns a display name for any id, known or not. Fallback chain:
// name, then email, then the first 8 characters of the id, then "Unknown".
func (d *Directory) NameOf(id string) string {
	if u, ok := d.byID[id]; ok {
		if u.Name != "" {
			return u.Name
		}
		if u.Email != "" {
			return u.Email
		}
	}
	if id != "" {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	}
	return unknownName
}
