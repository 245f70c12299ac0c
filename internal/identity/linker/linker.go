// Package linker applies matcher output to persisted staff records. A link,
// once meaningfully set, is never overwritten by automated reconciliation.
package linker

import (
	"context"

	"shutterops/internal/identity/matcher"
	id "shutterops/pkg/domain"
)

// StaffLinker is the single write the resolver needs.
type StaffLinker interface {
	SetStaffUserID(ctx context.Context, staffID id.StaffID, userID id.UserID) error
}

// Failure records one isolated per-record write failure.
type Failure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Result aggregates resolution outcomes. Order-independent; callers only
// report counts and failures.
type Result struct {
	Linked        []id.StaffID
	AlreadyLinked []id.StaffID
	Failures      []Failure
}

// Resolve walks candidate pairs and links each unlinked staff record to its
// matched user. A staff record already carrying a different (or identical)
// link is reported as alreadyLinked and left untouched. One failed write
// never aborts the remaining pairs, and the loop honors cancellation between
// writes; already-applied links stand.
func Resolve(ctx context.Context, pairs []matcher.Pair, store StaffLinker) (Result, error) {
	var res Result

	// A staff record can appear in several pairs (two users sharing its
	// personal email). The first link in this run wins; later pairs see it
	// as already linked rather than overwriting.
	linkedThisRun := make(map[id.StaffID]bool)

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if p.Staff.Linked() || linkedThisRun[p.Staff.ID] {
			res.AlreadyLinked = append(res.AlreadyLinked, p.Staff.ID)
			continue
		}

		if err := store.SetStaffUserID(ctx, p.Staff.ID, p.User.ID); err != nil {
			res.Failures = append(res.Failures, Failure{
				ID:    p.Staff.ID.String(),
				Error: err.Error(),
			})
			continue
		}
		linkedThisRun[p.Staff.ID] = true
		res.Linked = append(res.Linked, p.Staff.ID)
	}

	return res, nil
}

// UnmatchedUsers returns the users that produced no candidate pair at all.
// Reported as notFound by the bulk job.
func UnmatchedUsers(users []id.UserID, pairs []matcher.Pair) []id.UserID {
	matched := make(map[id.UserID]bool, len(pairs))
	for _, p := range pairs {
		matched[p.User.ID] = true
	}
	var missing []id.UserID
	for _, u := range users {
		if !matched[u] {
			missing = append(missing, u)
		}
	}
	return missing
}
