// Package matcher computes candidate links between users and staff records by
// email equality. Pure functions over loaded snapshots; no side effects.
package matcher

import (
	"shutterops/internal/identity/models"
	"shutterops/pkg/email"
)

// Pair is a candidate link: this staff record appears to belong to this user.
type Pair struct {
	User  models.User
	Staff models.Staff
}

// Index is a case-insensitive email lookup over staff records. A staff record
// is indexed under both its company and personal email when both are set; a
// record with no emails is never indexed and can never match.
type Index map[string][]models.Staff

// BuildIndex constructs the email index from a staff snapshot.
func BuildIndex(staff []models.Staff) Index {
	idx := make(Index)
	for _, s := range staff {
		keys := make(map[string]struct{}, 2)
		if k := email.Normalize(s.CompanyEmail); k != "" {
			keys[k] = struct{}{}
		}
		if k := email.Normalize(s.PersonalEmail); k != "" {
			keys[k] = struct{}{}
		}
		for k := range keys {
			idx[k] = append(idx[k], s)
		}
	}
	return idx
}

// Lookup returns the staff records matching a user's email. Multiple matches
// are legal: a shared personal email is a data-quality question, not a
// matcher error.
func (idx Index) Lookup(u models.User) []models.Staff {
	k := email.Normalize(u.Email)
	if k == "" {
		return nil
	}
	return idx[k]
}

// Match pairs every user with every staff record sharing an email.
func Match(users []models.User, staff []models.Staff) []Pair {
	idx := BuildIndex(staff)
	var pairs []Pair
	for _, u := range users {
		for _, s := range idx.Lookup(u) {
			pairs = append(pairs, Pair{User: u, Staff: s})
		}
	}
	return pairs
}

// MatchUser is the self-service variant: one user against the staff snapshot.
func MatchUser(u models.User, staff []models.Staff) []Pair {
	return Match([]models.User{u}, staff)
}
