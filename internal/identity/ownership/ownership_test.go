package ownership

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
)

type recordingUpdater struct {
	mu      sync.Mutex
	writes  map[string]string
	failFor map[string]error
}

func newRecordingUpdater() *recordingUpdater {
	return &recordingUpdater{writes: make(map[string]string), failFor: make(map[string]error)}
}

func (u *recordingUpdater) update(_ context.Context, recordID, createdBy string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.failFor[recordID]; err != nil {
		return err
	}
	u.writes[recordID] = createdBy
	return nil
}

func users(pairs ...[2]string) map[string]models.User {
	byID := make(map[string]models.User)
	for _, p := range pairs {
		byID[p[0]] = models.User{ID: id.UserID(p[0]), Email: p[1]}
	}
	return byID
}

func TestAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("fixes stale attribution with stored casing", func(t *testing.T) {
		upd := newRecordingUpdater()
		res, err := Audit(ctx,
			[]Record{{ID: "b1", ActorID: "u1", CreatedBy: "old@x.com"}},
			users([2]string{"u1", "New@X.com"}),
			upd.update, 0,
		)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Fixed)
		assert.Equal(t, "New@X.com", upd.writes["b1"], "canonical casing is the stored value")
	})

	t.Run("case-insensitive match counts as already correct", func(t *testing.T) {
		upd := newRecordingUpdater()
		res, err := Audit(ctx,
			[]Record{{ID: "l1", ActorID: "u1", CreatedBy: "JANE@X.COM"}},
			users([2]string{"u1", "jane@x.com"}),
			upd.update, 0,
		)
		require.NoError(t, err)
		assert.Equal(t, 1, res.AlreadyCorrect)
		assert.Empty(t, upd.writes)
	})

	t.Run("missing actor id is skipped", func(t *testing.T) {
		upd := newRecordingUpdater()
		res, err := Audit(ctx,
			[]Record{{ID: "l1", ActorID: "", CreatedBy: "x@x.com"}},
			users(), upd.update, 0,
		)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("dangling reference is skipped, not fixed", func(t *testing.T) {
		upd := newRecordingUpdater()
		res, err := Audit(ctx,
			[]Record{{ID: "l1", ActorID: "u404", CreatedBy: "x@x.com"}},
			users([2]string{"u1", "jane@x.com"}),
			upd.update, 0,
		)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		assert.Zero(t, res.Fixed)
		assert.Zero(t, res.AlreadyCorrect)
		assert.Empty(t, upd.writes)
	})

	t.Run("one failed update does not abort siblings", func(t *testing.T) {
		upd := newRecordingUpdater()
		upd.failFor["b1"] = errors.New("gateway timeout")
		res, err := Audit(ctx,
			[]Record{
				{ID: "b1", ActorID: "u1", CreatedBy: "stale@x.com"},
				{ID: "b2", ActorID: "u1", CreatedBy: "stale@x.com"},
			},
			users([2]string{"u1", "new@x.com"}),
			upd.update, 0,
		)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Fixed)
		require.Len(t, res.Failures, 1)
		assert.Equal(t, "b1", res.Failures[0].ID)
	})

	t.Run("mixed batch aggregates every outcome", func(t *testing.T) {
		upd := newRecordingUpdater()
		res, err := Audit(ctx,
			[]Record{
				{ID: "r1", ActorID: "u1", CreatedBy: "old@x.com"},
				{ID: "r2", ActorID: "u1", CreatedBy: "new@x.com"},
				{ID: "r3", ActorID: "", CreatedBy: ""},
				{ID: "r4", ActorID: "gone", CreatedBy: "x@x.com"},
			},
			users([2]string{"u1", "new@x.com"}),
			upd.update, 2,
		)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Fixed)
		assert.Equal(t, 1, res.AlreadyCorrect)
		assert.Equal(t, 2, res.Skipped)
	})
}

func TestProjections(t *testing.T) {
	leads := LeadRecords([]models.Lead{{ID: "l1", OwnerID: "u1", CreatedBy: "a@x.com"}})
	require.Len(t, leads, 1)
	assert.Equal(t, Record{ID: "l1", ActorID: "u1", CreatedBy: "a@x.com"}, leads[0])

	bookings := BookingRecords([]models.Booking{{ID: "b1", BookedByID: "u2", CreatedBy: "b@x.com"}})
	require.Len(t, bookings, 1)
	assert.Equal(t, Record{ID: "b1", ActorID: "u2", CreatedBy: "b@x.com"}, bookings[0])
}
