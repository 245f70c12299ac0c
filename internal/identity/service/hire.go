package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/requestcontext"
)

// StaffPayload is the hire-time staff data an admin may supply; anything
// absent falls back to the candidate record or to provisioning defaults.
type StaffPayload struct {
	LegalFullName string   `json:"legal_full_name"`
	PreferredName string   `json:"preferred_name"`
	CompanyEmail  string   `json:"company_email"`
	Departments   []string `json:"departments"`
	WorkerType    string   `json:"worker_type"`
	PayType       string   `json:"pay_type"`
	CurrentSalary float64  `json:"current_salary"`
	Timezone      string   `json:"timezone"`
	StartDate     string   `json:"start_date"`
}

// HireCandidateParams identify the candidate and the staff data to hire with.
type HireCandidateParams struct {
	CandidateID id.CandidateID
	Staff       StaffPayload
}

// HireReport summarizes a hire.
type HireReport struct {
	StaffID id.StaffID `json:"staff_id"`
	Linked  bool       `json:"linked"`
}

// HireCandidate converts a candidate into a staff record and immediately
// links it when a user with the candidate's email already exists. Admin only.
func (s *Service) HireCandidate(ctx context.Context, params HireCandidateParams) (*HireReport, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if params.CandidateID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "candidate_id is required")
	}

	ctx, span := s.tracer.Start(ctx, "identity.hire_candidate")
	defer span.End()
	start := time.Now()

	candidate, err := s.dir.GetCandidate(ctx, params.CandidateID)
	if err != nil {
		s.failJob(JobHireCandidate, start)
		return nil, notFoundOr(err, "candidate not found")
	}

	staff := staffFromHire(candidate, params.Staff, s.defaultTZ, requestcontext.Now(ctx))

	// Link before create if the candidate already has a login identity, so
	// the record is born linked instead of waiting for the next bulk run.
	linked := false
	if user, err := s.dir.FindUserByEmail(ctx, candidate.Email); err != nil {
		s.failJob(JobHireCandidate, start)
		return nil, wrapSnapshotErr(err, "users")
	} else if user != nil {
		staff.UserID = user.ID.String()
		linked = true
	}

	if err := s.dir.CreateStaff(ctx, staff); err != nil {
		s.failJob(JobHireCandidate, start)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create staff record")
	}

	report := &HireReport{StaffID: staff.ID, Linked: linked}

	counts := map[string]int{"hired": 1}
	if linked {
		counts["linked"] = 1
	}
	s.finishJob(ctx, JobHireCandidate, start, counts)
	s.logger.InfoContext(ctx, "candidate hired",
		"request_id", requestcontext.RequestID(ctx),
		"candidate_id", candidate.ID,
		"staff_id", staff.ID,
		"linked", linked,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func staffFromHire(candidate models.Candidate, payload StaffPayload, defaultTZ string, now time.Time) models.Staff {
	staff := models.Staff{
		ID:               id.StaffID(uuid.NewString()),
		CompanyEmail:     payload.CompanyEmail,
		LegalFullName:    firstNonEmpty(payload.LegalFullName, candidate.FullName),
		PreferredName:    firstNonEmpty(payload.PreferredName, candidate.FullName),
		EmploymentStatus: models.EmploymentStatusActive,
		WorkerType:       firstNonEmpty(payload.WorkerType, models.WorkerTypeW2Employee),
		PayType:          firstNonEmpty(payload.PayType, models.PayTypeSalary),
		CurrentSalary:    payload.CurrentSalary,
		Timezone:         firstNonEmpty(payload.Timezone, defaultTZ),
		StartDate:        firstNonEmpty(payload.StartDate, now.Format(time.DateOnly)),
		Departments:      payload.Departments,
	}
	staff.PersonalEmail = candidate.Email
	staff.Phone = candidate.Phone
	return staff
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
