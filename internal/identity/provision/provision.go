// Package provision builds default staff shell records for users that have
// none, so every login identity eventually has a business record behind it.
package provision

import (
	"time"

	"github.com/google/uuid"

	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
)

// Defaults parameterizes the staff shells.
type Defaults struct {
	Timezone string
	// Now is the job's execution time; start_date is derived from it.
	Now time.Time
}

// LinkedUserIDs collects the set of user ids already present on any staff
// record. Set semantics: duplicates collapse.
func LinkedUserIDs(staff []models.Staff) map[string]struct{} {
	linked := make(map[string]struct{}, len(staff))
	for _, s := range staff {
		if s.Linked() {
			linked[s.UserID] = struct{}{}
		}
	}
	return linked
}

// MissingStaffDrafts returns a default staff draft for every user whose id
// appears on no staff record. Pure aside from draft id generation.
func MissingStaffDrafts(users []models.User, staff []models.Staff, d Defaults) []models.Staff {
	linked := LinkedUserIDs(staff)

	var drafts []models.Staff
	for _, u := range users {
		if _, ok := linked[u.ID.String()]; ok {
			continue
		}
		drafts = append(drafts, draftFor(u, d))
	}
	return drafts
}

func draftFor(u models.User, d Defaults) models.Staff {
	s := models.Staff{
		ID:               id.StaffID(uuid.NewString()),
		UserID:           u.ID.String(),
		CompanyEmail:     u.Email,
		LegalFullName:    u.FullName,
		PreferredName:    u.FullName,
		EmploymentStatus: models.EmploymentStatusActive,
		WorkerType:       models.WorkerTypeW2Employee,
		PayType:          models.PayTypeSalary,
		CurrentSalary:    0,
		Timezone:         d.Timezone,
		StartDate:        d.Now.Format(time.DateOnly),
	}
	s.Profile = u.Profile
	return s
}
