// Package ownership audits the denormalized created_by attribution field on
// lead and booking records against the user their actor-id references.
//
// The audit is record-type specific: leads attribute via owner_id and
// bookings via booked_by_id, so the job runs once per record type. Repairing
// dangling actor-ids is out of scope; they are skipped, not errors.
package ownership

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"shutterops/internal/identity/models"
	"shutterops/pkg/email"
)

// Record is the attribution view of a lead or booking.
type Record struct {
	ID        string
	ActorID   string
	CreatedBy string
}

// Updater writes the corrected attribution email for one record. Bound to a
// single collection by the caller.
type Updater func(ctx context.Context, recordID, createdBy string) error

// Failure records one isolated per-record write failure.
type Failure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Result aggregates audit outcomes. Aggregation is order-independent; the
// per-record updates may run concurrently.
type Result struct {
	Fixed          int
	AlreadyCorrect int
	Skipped        int
	Failures       []Failure
}

// DefaultFanout bounds the concurrent per-record updates.
const DefaultFanout = 8

// UsersByID indexes a user snapshot for actor-id resolution.
func UsersByID(users []models.User) map[string]models.User {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID.String()] = u
	}
	return byID
}

// Audit walks the records and corrects created_by wherever it disagrees,
// case-insensitively, with the referenced user's stored email. The canonical
// value written is the user's stored casing, never a lowercased form.
//
// No update depends on another's outcome, so fixes are dispatched with a
// bounded fan-out. One failed update never aborts its siblings; cancellation
// is honored between dispatches and already-applied updates stand.
func Audit(ctx context.Context, records []Record, usersByID map[string]models.User, update Updater, fanout int64) (Result, error) {
	if fanout <= 0 {
		fanout = DefaultFanout
	}

	var (
		mu  sync.Mutex
		res Result
		wg  sync.WaitGroup
	)
	sem := semaphore.NewWeighted(fanout)

	for _, rec := range records {
		if rec.ActorID == "" {
			res.Skipped++
			continue
		}
		user, ok := usersByID[rec.ActorID]
		if !ok {
			// Dangling reference; repairing actor-ids is a different job.
			res.Skipped++
			continue
		}
		if email.Equal(rec.CreatedBy, user.Email) {
			res.AlreadyCorrect++
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return res, err
		}
		wg.Add(1)
		go func(rec Record, canonical string) {
			defer sem.Release(1)
			defer wg.Done()

			err := update(ctx, rec.ID, canonical)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, Failure{ID: rec.ID, Error: err.Error()})
				return
			}
			res.Fixed++
		}(rec, user.Email)
	}

	wg.Wait()
	return res, nil
}

// LeadRecords projects leads into the attribution view.
func LeadRecords(leads []models.Lead) []Record {
	records := make([]Record, 0, len(leads))
	for _, l := range leads {
		records = append(records, Record{ID: l.ID.String(), ActorID: l.OwnerID, CreatedBy: l.CreatedBy})
	}
	return records
}

// BookingRecords projects bookings into the attribution view.
func BookingRecords(bookings []models.Booking) []Record {
	records := make([]Record, 0, len(bookings))
	for _, b := range bookings {
		records = append(records, Record{ID: b.ID.String(), ActorID: b.BookedByID, CreatedBy: b.CreatedBy})
	}
	return records
}
