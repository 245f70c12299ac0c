package service

import (
	"context"
	"time"

	"shutterops/internal/identity/ownership"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/requestcontext"
)

// Entity names accepted by AuditOwnership.
const (
	EntityLeads    = "leads"
	EntityBookings = "bookings"
)

// EntityAuditReport is the per-record-type slice of an ownership audit.
type EntityAuditReport struct {
	Fixed          int                 `json:"fixed"`
	AlreadyCorrect int                 `json:"already_correct"`
	Skipped        int                 `json:"skipped"`
	Failures       []ownership.Failure `json:"failures,omitempty"`
}

// OwnershipReport summarizes an ownership audit run.
type OwnershipReport struct {
	Leads    *EntityAuditReport `json:"leads,omitempty"`
	Bookings *EntityAuditReport `json:"bookings,omitempty"`
}

func toEntityReport(res ownership.Result) *EntityAuditReport {
	return &EntityAuditReport{
		Fixed:          res.Fixed,
		AlreadyCorrect: res.AlreadyCorrect,
		Skipped:        res.Skipped,
		Failures:       res.Failures,
	}
}

// AuditOwnership corrects stale created_by attribution on leads and/or
// bookings. The audit runs once per record type because the actor-id field
// name differs. Admin only.
func (s *Service) AuditOwnership(ctx context.Context, entities []string) (*OwnershipReport, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		entities = []string{EntityLeads, EntityBookings}
	}
	for _, e := range entities {
		if e != EntityLeads && e != EntityBookings {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unknown entity "+e)
		}
	}

	release, err := s.acquireLock(ctx, JobAuditOwnership)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, span := s.tracer.Start(ctx, "identity.audit_ownership")
	defer span.End()
	start := time.Now()

	users, err := s.dir.ListUsers(ctx)
	if err != nil {
		s.failJob(JobAuditOwnership, start)
		return nil, wrapSnapshotErr(err, "users")
	}
	usersByID := ownership.UsersByID(users)

	report := &OwnershipReport{}
	counts := map[string]int{}

	for _, entity := range entities {
		var res ownership.Result
		switch entity {
		case EntityLeads:
			leads, err := s.dir.ListLeads(ctx)
			if err != nil {
				s.failJob(JobAuditOwnership, start)
				return nil, wrapSnapshotErr(err, "leads")
			}
			res, err = ownership.Audit(ctx, ownership.LeadRecords(leads), usersByID, s.dir.SetLeadCreatedBy, s.fanout)
			if err != nil {
				s.failJob(JobAuditOwnership, start)
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "lead audit interrupted")
			}
			report.Leads = toEntityReport(res)
		case EntityBookings:
			bookings, err := s.dir.ListBookings(ctx)
			if err != nil {
				s.failJob(JobAuditOwnership, start)
				return nil, wrapSnapshotErr(err, "bookings")
			}
			res, err = ownership.Audit(ctx, ownership.BookingRecords(bookings), usersByID, s.dir.SetBookingCreatedBy, s.fanout)
			if err != nil {
				s.failJob(JobAuditOwnership, start)
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "booking audit interrupted")
			}
			report.Bookings = toEntityReport(res)
		}
		counts[entity+"_fixed"] = res.Fixed
		counts[entity+"_skipped"] = res.Skipped
		s.metrics.AddChanged(JobAuditOwnership, entity+"_fixed", res.Fixed)
	}

	s.finishJob(ctx, JobAuditOwnership, start, counts)
	s.logger.InfoContext(ctx, "ownership audit completed",
		"request_id", requestcontext.RequestID(ctx),
		"entities", entities,
		"counts", counts,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}
