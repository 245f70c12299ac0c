package service

import (
	"context"
	"time"

	"shutterops/internal/gateway"
	"shutterops/internal/identity/linker"
	"shutterops/internal/identity/matcher"
	"shutterops/internal/identity/models"
	"shutterops/internal/identity/profilesync"
	id "shutterops/pkg/domain"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/requestcontext"
)

// SyncProfileParams selects the subject and optionally overrides the source.
type SyncProfileParams struct {
	// UserID lets an admin sync on behalf of another user; defaults to the
	// caller.
	UserID id.UserID
	// Payload overrides the user's stored profile as the sync source.
	Payload *profilesync.Source
}

// SyncReport summarizes a profile sync run.
type SyncReport struct {
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Linked    int              `json:"linked"`
	Failures  []linker.Failure `json:"failures,omitempty"`
}

// SyncProfile pushes the subject user's profile onto every staff record that
// is linked to them or matched by email and still unlinked. Full-overwrite
// semantics per field, diff-applied so a consistent record costs no write.
// When a target staff record is unlinked, the link is folded into the same
// patch; a different existing link is never overwritten.
func (s *Service) SyncProfile(ctx context.Context, params SyncProfileParams) (*SyncReport, error) {
	if err := s.requireCaller(ctx); err != nil {
		return nil, err
	}

	caller := requestcontext.UserID(ctx)
	subject := caller
	if !params.UserID.IsEmpty() && params.UserID != caller {
		if requestcontext.Role(ctx) != models.RoleAdmin {
			return nil, dErrors.New(dErrors.CodeForbidden, "cannot sync another user's profile")
		}
		subject = params.UserID
	}

	ctx, span := s.tracer.Start(ctx, "identity.sync_profile")
	defer span.End()
	start := time.Now()

	user, err := s.dir.GetUser(ctx, subject)
	if err != nil {
		s.failJob(JobSyncProfile, start)
		return nil, notFoundOr(err, "user not found")
	}
	staff, err := s.dir.ListStaff(ctx)
	if err != nil {
		s.failJob(JobSyncProfile, start)
		return nil, wrapSnapshotErr(err, "staff")
	}

	targets := syncTargets(user, staff)

	src := profilesync.FromUser(user)
	if params.Payload != nil {
		src = *params.Payload
	}

	report := &SyncReport{}
	for _, st := range targets {
		if err := ctx.Err(); err != nil {
			s.failJob(JobSyncProfile, start)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sync run interrupted")
		}

		patch := profilesync.UserToStaffPatch(src, st)
		if !st.Linked() {
			if patch == nil {
				patch = gateway.Doc{}
			}
			patch["user_id"] = subject.String()
		}
		if len(patch) == 0 {
			report.Unchanged++
			continue
		}

		if err := s.dir.UpdateStaff(ctx, st.ID, patch); err != nil {
			report.Failures = append(report.Failures, linker.Failure{
				ID:    st.ID.String(),
				Error: err.Error(),
			})
			continue
		}
		report.Updated++
		if _, ok := patch["user_id"]; ok {
			report.Linked++
		}
	}

	s.metrics.AddChanged(JobSyncProfile, "updated", report.Updated)
	s.finishJob(ctx, JobSyncProfile, start, map[string]int{
		"updated":   report.Updated,
		"unchanged": report.Unchanged,
		"linked":    report.Linked,
		"failed":    len(report.Failures),
	})
	s.logger.InfoContext(ctx, "profile sync completed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", subject,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"linked", report.Linked,
		"failed", len(report.Failures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// syncTargets selects the staff records a user's profile flows onto: records
// already linked to the user, plus email matches that are still unlinked. A
// record linked to a different user is excluded entirely; syncing onto it
// would clobber someone else's data.
func syncTargets(user models.User, staff []models.Staff) []models.Staff {
	seen := make(map[id.StaffID]bool)
	var targets []models.Staff

	for _, st := range staff {
		if st.UserID == user.ID.String() {
			targets = append(targets, st)
			seen[st.ID] = true
		}
	}
	for _, p := range matcher.MatchUser(user, staff) {
		if seen[p.Staff.ID] || p.Staff.Linked() {
			continue
		}
		targets = append(targets, p.Staff)
		seen[p.Staff.ID] = true
	}
	return targets
}
