// Package service wires the reconciliation components into the admin and
// self-service jobs. Each job is stateless per invocation and idempotent:
// re-running a job over an already-consistent collection performs zero writes
// and reports zero fixed counts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"shutterops/internal/audit"
	"shutterops/internal/identity/directory"
	idmetrics "shutterops/internal/identity/metrics"
	"shutterops/internal/identity/models"
	"shutterops/internal/identity/ownership"
	"shutterops/internal/platform/joblock"
	dErrors "shutterops/pkg/domain-errors"
	"shutterops/pkg/platform/sentinel"
	"shutterops/pkg/requestcontext"
)

// Job type names; also the advisory lock keys for collection-wide jobs.
const (
	JobLinkAllStaff   = "link_all_staff"
	JobLinkSelf       = "link_self"
	JobSyncProfile    = "sync_profile"
	JobAuditOwnership = "audit_ownership"
	JobProvisionStaff = "provision_staff"
	JobInviteStaff    = "invite_staff_user"
	JobHireCandidate  = "hire_candidate"
)

// AuditPublisher emits structured audit events for completed jobs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the reconciliation jobs.
type Service struct {
	dir       *directory.Directory
	locker    joblock.Locker
	logger    *slog.Logger
	metrics   *idmetrics.Metrics
	audit     AuditPublisher
	tracer    trace.Tracer
	defaultTZ string
	fanout    int64
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithLocker(locker joblock.Locker) Option {
	return func(s *Service) { s.locker = locker }
}

func WithMetrics(m *idmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithDefaultTimezone(tz string) Option {
	return func(s *Service) { s.defaultTZ = tz }
}

// WithFanout bounds the concurrent per-record updates in batch jobs.
func WithFanout(n int64) Option {
	return func(s *Service) { s.fanout = n }
}

// New constructs the reconciliation service.
func New(dir *directory.Directory, opts ...Option) (*Service, error) {
	if dir == nil {
		return nil, errors.New("directory is required")
	}
	s := &Service{
		dir:       dir,
		locker:    joblock.NewMemory(),
		logger:    slog.Default(),
		tracer:    otel.Tracer("shutterops/identity"),
		defaultTZ: "America/Chicago",
		fanout:    ownership.DefaultFanout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// requireAdmin gates jobs that mutate records outside the caller's own
// identity. The router enforces this too; the service re-checks so jobs stay
// safe when invoked from future non-HTTP entry points (schedulers, CLI).
func (s *Service) requireAdmin(ctx context.Context) error {
	if requestcontext.UserID(ctx).IsEmpty() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if requestcontext.Role(ctx) != models.RoleAdmin {
		return dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return nil
}

func (s *Service) requireCaller(ctx context.Context) error {
	if requestcontext.UserID(ctx).IsEmpty() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

// acquireLock takes the best-effort advisory lock for a collection-wide job.
// A held lock means another admin already triggered the same job type.
func (s *Service) acquireLock(ctx context.Context, job string) (func(), error) {
	release, ok, err := s.locker.Acquire(ctx, job)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire job lock")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeConflict, "job already running")
	}
	return release, nil
}

// finishJob records metrics and emits the audit event for a completed job.
func (s *Service) finishJob(ctx context.Context, job string, start time.Time, counts map[string]int) {
	s.metrics.ObserveJob(job, "success", time.Since(start))
	if s.audit != nil {
		event := audit.Event{
			Action:    job + "_completed",
			ActorID:   requestcontext.UserID(ctx).String(),
			RequestID: requestcontext.RequestID(ctx),
			Counts:    counts,
		}
		if err := s.audit.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "audit emit failed",
				"request_id", requestcontext.RequestID(ctx),
				"job", job,
				"error", err,
			)
		}
	}
}

func (s *Service) failJob(job string, start time.Time) {
	s.metrics.ObserveJob(job, "error", time.Since(start))
}

// wrapSnapshotErr classifies a snapshot-read failure; these are fatal to the
// whole job.
func wrapSnapshotErr(err error, what string) error {
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
}

// notFoundOr translates a store sentinel into a 404, everything else into an
// internal error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
