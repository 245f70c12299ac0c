package service

import (
	"context"
	"time"

	"shutterops/internal/identity/linker"
	"shutterops/internal/identity/matcher"
	"shutterops/internal/identity/models"
	"shutterops/internal/identity/profilesync"
	id "shutterops/pkg/domain"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/requestcontext"
)

// LinkAllReport summarizes a bulk link run.
type LinkAllReport struct {
	Linked        int              `json:"linked"`
	AlreadyLinked int              `json:"already_linked"`
	NotFound      int              `json:"not_found"`
	Failures      []linker.Failure `json:"failures,omitempty"`
}

// LinkAllStaff matches every user against every staff record by email and
// links the unlinked matches. Admin only.
func (s *Service) LinkAllStaff(ctx context.Context) (*LinkAllReport, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	release, err := s.acquireLock(ctx, JobLinkAllStaff)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, span := s.tracer.Start(ctx, "identity.link_all_staff")
	defer span.End()
	start := time.Now()

	users, err := s.dir.ListUsers(ctx)
	if err != nil {
		s.failJob(JobLinkAllStaff, start)
		return nil, wrapSnapshotErr(err, "users")
	}
	staff, err := s.dir.ListStaff(ctx)
	if err != nil {
		s.failJob(JobLinkAllStaff, start)
		return nil, wrapSnapshotErr(err, "staff")
	}

	pairs := matcher.Match(users, staff)
	res, err := linker.Resolve(ctx, pairs, s.dir)
	if err != nil {
		s.failJob(JobLinkAllStaff, start)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "link run interrupted")
	}

	userIDs := make([]id.UserID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	notFound := linker.UnmatchedUsers(userIDs, pairs)

	report := &LinkAllReport{
		Linked:        len(res.Linked),
		AlreadyLinked: len(res.AlreadyLinked),
		NotFound:      len(notFound),
		Failures:      res.Failures,
	}

	s.metrics.AddChanged(JobLinkAllStaff, "linked", report.Linked)
	s.finishJob(ctx, JobLinkAllStaff, start, map[string]int{
		"linked":         report.Linked,
		"already_linked": report.AlreadyLinked,
		"not_found":      report.NotFound,
		"failed":         len(report.Failures),
	})
	s.logger.InfoContext(ctx, "bulk staff link completed",
		"request_id", requestcontext.RequestID(ctx),
		"linked", report.Linked,
		"already_linked", report.AlreadyLinked,
		"not_found", report.NotFound,
		"failed", len(report.Failures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// SelfLinkReport summarizes a self-service link run.
type SelfLinkReport struct {
	Linked        int              `json:"linked"`
	AlreadyLinked int              `json:"already_linked"`
	SyncedFields  int              `json:"synced_fields"`
	Failures      []linker.Failure `json:"failures,omitempty"`
}

// LinkSelf links the caller's own staff records and gap-fills the caller's
// user profile from the first linked staff record. Any authenticated caller.
func (s *Service) LinkSelf(ctx context.Context) (*SelfLinkReport, error) {
	if err := s.requireCaller(ctx); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "identity.link_self")
	defer span.End()
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		s.failJob(JobLinkSelf, start)
		return nil, notFoundOr(err, "user not found")
	}
	staff, err := s.dir.ListStaff(ctx)
	if err != nil {
		s.failJob(JobLinkSelf, start)
		return nil, wrapSnapshotErr(err, "staff")
	}

	pairs := matcher.MatchUser(user, staff)
	res, err := linker.Resolve(ctx, pairs, s.dir)
	if err != nil {
		s.failJob(JobLinkSelf, start)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "link run interrupted")
	}

	report := &SelfLinkReport{
		Linked:        len(res.Linked),
		AlreadyLinked: len(res.AlreadyLinked),
		Failures:      res.Failures,
	}

	// Initial-link gap fill: the user is canonical afterwards, so this is the
	// one moment staff data may flow onto the user record.
	report.SyncedFields = s.gapFillUser(ctx, user, pairs)

	s.finishJob(ctx, JobLinkSelf, start, map[string]int{
		"linked":        report.Linked,
		"synced_fields": report.SyncedFields,
	})
	s.logger.InfoContext(ctx, "self-service link completed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"linked", report.Linked,
		"already_linked", report.AlreadyLinked,
		"synced_fields", report.SyncedFields,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// gapFillUser copies non-empty staff fields onto empty user fields from the
// caller's first own staff record. Returns the number of fields written.
func (s *Service) gapFillUser(ctx context.Context, user models.User, pairs []matcher.Pair) int {
	for _, p := range pairs {
		// Skip staff that belong to someone else.
		if p.Staff.Linked() && p.Staff.UserID != user.ID.String() {
			continue
		}
		patch := profilesync.StaffToUserPatch(p.Staff, user)
		if patch == nil {
			return 0
		}
		if err := s.dir.UpdateUser(ctx, user.ID, patch); err != nil {
			s.logger.WarnContext(ctx, "profile gap fill failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", user.ID,
				"staff_id", p.Staff.ID,
				"error", err,
			)
			return 0
		}
		return len(patch)
	}
	return 0
}
