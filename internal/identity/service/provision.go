package service

import (
	"context"
	"time"

	"shutterops/internal/identity/provision"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/requestcontext"
)

// ProvisionReport summarizes a bulk provisioning run. Intended is logged and
// reported even when the bulk create fails partway, so a partial failure is
// still attributable.
type ProvisionReport struct {
	Intended    int `json:"intended"`
	Provisioned int `json:"provisioned"`
}

// ProvisionStaff creates a default staff shell for every user that has no
// staff record. One bulk create; all-or-nothing from the gateway's
// perspective. Admin only.
func (s *Service) ProvisionStaff(ctx context.Context) (*ProvisionReport, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	release, err := s.acquireLock(ctx, JobProvisionStaff)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, span := s.tracer.Start(ctx, "identity.provision_staff")
	defer span.End()
	start := time.Now()

	users, err := s.dir.ListUsers(ctx)
	if err != nil {
		s.failJob(JobProvisionStaff, start)
		return nil, wrapSnapshotErr(err, "users")
	}
	staff, err := s.dir.ListStaff(ctx)
	if err != nil {
		s.failJob(JobProvisionStaff, start)
		return nil, wrapSnapshotErr(err, "staff")
	}

	drafts := provision.MissingStaffDrafts(users, staff, provision.Defaults{
		Timezone: s.defaultTZ,
		Now:      requestcontext.Now(ctx),
	})

	// Logged before the bulk call so a failed batch is attributable.
	s.logger.InfoContext(ctx, "provisioning staff shells",
		"request_id", requestcontext.RequestID(ctx),
		"intended", len(drafts),
	)

	report := &ProvisionReport{Intended: len(drafts)}
	if len(drafts) > 0 {
		if err := s.dir.BulkCreateStaff(ctx, drafts); err != nil {
			s.failJob(JobProvisionStaff, start)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "bulk staff create failed")
		}
		report.Provisioned = len(drafts)
	}

	s.metrics.AddChanged(JobProvisionStaff, "provisioned", report.Provisioned)
	s.finishJob(ctx, JobProvisionStaff, start, map[string]int{
		"intended":    report.Intended,
		"provisioned": report.Provisioned,
	})
	s.logger.InfoContext(ctx, "staff provisioning completed",
		"request_id", requestcontext.RequestID(ctx),
		"provisioned", report.Provisioned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}
