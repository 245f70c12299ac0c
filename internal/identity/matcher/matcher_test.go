package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
)

func user(uid, addr string) models.User {
	return models.User{ID: id.UserID(uid), Email: addr}
}

func staff(sid, company, personal string) models.Staff {
	s := models.Staff{ID: id.StaffID(sid), CompanyEmail: company}
	s.PersonalEmail = personal
	return s
}

func TestMatch(t *testing.T) {
	t.Run("case-insensitive company email match", func(t *testing.T) {
		pairs := Match(
			[]models.User{user("u1", "jane@co.com")},
			[]models.Staff{staff("s1", "Jane@Co.com", "")},
		)
		require.Len(t, pairs, 1)
		assert.Equal(t, id.StaffID("s1"), pairs[0].Staff.ID)
		assert.Equal(t, id.UserID("u1"), pairs[0].User.ID)
	})

	t.Run("personal email also matches", func(t *testing.T) {
		pairs := Match(
			[]models.User{user("u1", "jane@home.com")},
			[]models.Staff{staff("s1", "jane@co.com", "JANE@HOME.COM")},
		)
		require.Len(t, pairs, 1)
	})

	t.Run("staff with no emails is excluded, not an error", func(t *testing.T) {
		pairs := Match(
			[]models.User{user("u1", "jane@co.com")},
			[]models.Staff{staff("s1", "", "")},
		)
		assert.Empty(t, pairs)
	})

	t.Run("identical company and personal email yields one pair", func(t *testing.T) {
		pairs := Match(
			[]models.User{user("u1", "jane@co.com")},
			[]models.Staff{staff("s1", "jane@co.com", "Jane@Co.com")},
		)
		assert.Len(t, pairs, 1)
	})

	t.Run("one user email matching two staff yields two pairs", func(t *testing.T) {
		pairs := Match(
			[]models.User{user("u1", "shared@home.com")},
			[]models.Staff{
				staff("s1", "a@co.com", "shared@home.com"),
				staff("s2", "b@co.com", "shared@home.com"),
			},
		)
		assert.Len(t, pairs, 2)
	})

	t.Run("user with empty email never matches", func(t *testing.T) {
		pairs := Match(
			[]models.User{user("u1", "")},
			[]models.Staff{staff("s1", "", "")},
		)
		assert.Empty(t, pairs)
	})

	t.Run("bulk scenario", func(t *testing.T) {
		// 2 staff match u1, 1 staff matches u2, 1 staff unmatched, u3 no match.
		users := []models.User{
			user("u1", "one@co.com"),
			user("u2", "two@co.com"),
			user("u3", "three@co.com"),
		}
		staffRecords := []models.Staff{
			staff("s1", "one@co.com", ""),
			staff("s2", "", "ONE@CO.COM"),
			staff("s3", "two@co.com", ""),
			staff("s4", "nobody@co.com", ""),
			staff("s5", "", ""),
		}
		pairs := Match(users, staffRecords)
		assert.Len(t, pairs, 3)

		matchedUsers := map[id.UserID]int{}
		for _, p := range pairs {
			matchedUsers[p.User.ID]++
		}
		assert.Equal(t, 2, matchedUsers["u1"])
		assert.Equal(t, 1, matchedUsers["u2"])
		assert.Zero(t, matchedUsers["u3"])
	})
}

func TestMatchUser(t *testing.T) {
	pairs := MatchUser(
		user("u1", "Jane@Co.com"),
		[]models.Staff{staff("s1", "jane@co.com", ""), staff("s2", "other@co.com", "")},
	)
	require.Len(t, pairs, 1)
	assert.Equal(t, id.StaffID("s1"), pairs[0].Staff.ID)
}
