package linker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterops/internal/identity/matcher"
	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
)

type fakeLinker struct {
	links    map[id.StaffID]id.UserID
	failFor  map[id.StaffID]error
	writeSeq []id.StaffID
}

func newFakeLinker() *fakeLinker {
	return &fakeLinker{
		links:   make(map[id.StaffID]id.UserID),
		failFor: make(map[id.StaffID]error),
	}
}

func (f *fakeLinker) SetStaffUserID(_ context.Context, staffID id.StaffID, userID id.UserID) error {
	if err := f.failFor[staffID]; err != nil {
		return err
	}
	f.links[staffID] = userID
	f.writeSeq = append(f.writeSeq, staffID)
	return nil
}

func pair(uid string, sid string, existingLink string) matcher.Pair {
	return matcher.Pair{
		User:  models.User{ID: id.UserID(uid), Email: uid + "@co.com"},
		Staff: models.Staff{ID: id.StaffID(sid), UserID: existingLink},
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("links unlinked staff", func(t *testing.T) {
		store := newFakeLinker()
		res, err := Resolve(ctx, []matcher.Pair{pair("u1", "s1", "")}, store)
		require.NoError(t, err)
		assert.Equal(t, []id.StaffID{"s1"}, res.Linked)
		assert.Equal(t, id.UserID("u1"), store.links["s1"])
	})

	t.Run("never overwrites an existing link", func(t *testing.T) {
		store := newFakeLinker()
		res, err := Resolve(ctx, []matcher.Pair{pair("u2", "s1", "u1")}, store)
		require.NoError(t, err)
		assert.Empty(t, res.Linked)
		assert.Equal(t, []id.StaffID{"s1"}, res.AlreadyLinked)
		assert.Empty(t, store.writeSeq, "no write may happen for a linked record")
	})

	t.Run("first link wins when two users match one staff", func(t *testing.T) {
		store := newFakeLinker()
		res, err := Resolve(ctx, []matcher.Pair{
			pair("u1", "s1", ""),
			pair("u2", "s1", ""),
		}, store)
		require.NoError(t, err)
		assert.Len(t, res.Linked, 1)
		assert.Len(t, res.AlreadyLinked, 1)
		assert.Equal(t, id.UserID("u1"), store.links["s1"])
	})

	t.Run("one failed write does not abort the rest", func(t *testing.T) {
		store := newFakeLinker()
		store.failFor["s1"] = errors.New("gateway timeout")
		res, err := Resolve(ctx, []matcher.Pair{
			pair("u1", "s1", ""),
			pair("u2", "s2", ""),
		}, store)
		require.NoError(t, err)
		require.Len(t, res.Failures, 1)
		assert.Equal(t, "s1", res.Failures[0].ID)
		assert.Equal(t, []id.StaffID{"s2"}, res.Linked)
	})

	t.Run("cancellation stops between writes", func(t *testing.T) {
		store := newFakeLinker()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Resolve(cancelled, []matcher.Pair{pair("u1", "s1", "")}, store)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, store.writeSeq)
	})
}

func TestUnmatchedUsers(t *testing.T) {
	pairs := []matcher.Pair{pair("u1", "s1", ""), pair("u2", "s2", "")}
	missing := UnmatchedUsers([]id.UserID{"u1", "u2", "u3"}, pairs)
	assert.Equal(t, []id.UserID{"u3"}, missing)
}
