package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shutterops/internal/gateway"
	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/email"
	"shutterops/pkg/requestcontext"
)

// InviteStaffUserParams identify the staff record and the login identity to
// create for it.
type InviteStaffUserParams struct {
	StaffID      id.StaffID
	CompanyEmail string
	Departments  []string
}

// InviteReport summarizes a staff invite.
type InviteReport struct {
	UserID       id.UserID `json:"user_id"`
	Linked       bool      `json:"linked"`
	SyncedFields int       `json:"synced_fields"`
}

// InviteStaffUser creates the login identity for an existing staff record and
// links the two. The new user's profile is seeded from the staff record; the
// user is canonical from then on. Admin only.
func (s *Service) InviteStaffUser(ctx context.Context, params InviteStaffUserParams) (*InviteReport, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if params.StaffID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "staff_id is required")
	}
	params.CompanyEmail = strings.TrimSpace(params.CompanyEmail)
	if params.CompanyEmail == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "company_email is required")
	}

	ctx, span := s.tracer.Start(ctx, "identity.invite_staff_user")
	defer span.End()
	start := time.Now()

	staff, err := s.dir.GetStaff(ctx, params.StaffID)
	if err != nil {
		s.failJob(JobInviteStaff, start)
		return nil, notFoundOr(err, "staff record not found")
	}
	if staff.Linked() {
		s.failJob(JobInviteStaff, start)
		return nil, dErrors.New(dErrors.CodeConflict, "staff record is already linked to a user")
	}

	existing, err := s.dir.FindUserByEmail(ctx, params.CompanyEmail)
	if err != nil {
		s.failJob(JobInviteStaff, start)
		return nil, wrapSnapshotErr(err, "users")
	}
	if existing != nil {
		s.failJob(JobInviteStaff, start)
		return nil, dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
	}

	fullName := staff.DisplayName()
	if fullName == "" {
		first, last := email.DeriveNameFromEmail(params.CompanyEmail)
		fullName = first + " " + last
	}

	user := models.User{
		ID:       id.UserID(uuid.NewString()),
		Email:    params.CompanyEmail,
		FullName: fullName,
		Role:     models.RoleMember,
	}
	// Seed the new identity from the staff record; every field is a gap.
	user.Profile = staff.Profile
	syncedFields := countNonEmptyProfileFields(staff.Profile)

	if err := s.dir.CreateUser(ctx, user); err != nil {
		s.failJob(JobInviteStaff, start)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	patch := gateway.Doc{"user_id": user.ID.String()}
	if !email.Equal(staff.CompanyEmail, params.CompanyEmail) {
		patch["company_email"] = params.CompanyEmail
	}
	if len(params.Departments) > 0 {
		patch["departments"] = params.Departments
	}
	if err := s.dir.UpdateStaff(ctx, staff.ID, patch); err != nil {
		s.failJob(JobInviteStaff, start)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link staff record")
	}

	report := &InviteReport{UserID: user.ID, Linked: true, SyncedFields: syncedFields}

	s.finishJob(ctx, JobInviteStaff, start, map[string]int{
		"linked":        1,
		"synced_fields": syncedFields,
	})
	s.logger.InfoContext(ctx, "staff user invited",
		"request_id", requestcontext.RequestID(ctx),
		"staff_id", staff.ID,
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func countNonEmptyProfileFields(p models.Profile) int {
	n := 0
	for _, v := range []string{
		p.ProfilePhotoURL, p.PersonalEmail, p.Phone, p.Address, p.Bio,
		p.LinkedinLink, p.FacebookLink, p.InstagramLink, p.TiktokLink,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.EmergencyContactRelationship, p.EmergencyContactEmail,
	} {
		if v != "" {
			n++
		}
	}
	return n
}
