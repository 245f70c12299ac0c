package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shutterops/internal/identity/service"
	"shutterops/pkg/platform/httputil"
	"shutterops/pkg/requestcontext"
)

// Service defines the identity operations the HTTP layer exposes.
type Service interface {
	LinkAllStaff(ctx context.Context) (*service.LinkAllReport, error)
	LinkSelf(ctx context.Context) (*service.SelfLinkReport, error)
	SyncProfile(ctx context.Context, params service.SyncProfileParams) (*service.SyncReport, error)
	AuditOwnership(ctx context.Context, entities []string) (*service.OwnershipReport, error)
	ProvisionStaff(ctx context.Context) (*service.ProvisionReport, error)
	InviteStaffUser(ctx context.Context, params service.InviteStaffUserParams) (*service.InviteReport, error)
	HireCandidate(ctx context.Context, params service.HireCandidateParams) (*service.HireReport, error)
}

// Handler wires identity endpoints to the identity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identity handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the authenticated (non-admin) identity endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/link-self", h.HandleLinkSelf)
	r.Post("/identity/sync-profile", h.HandleSyncProfile)
}

// RegisterAdmin mounts the admin-only identity endpoints. The router is
// expected to have already applied the admin role middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/identity/link-staff", h.HandleLinkAllStaff)
	r.Post("/identity/audit-ownership", h.HandleAuditOwnership)
	r.Post("/identity/provision-staff", h.HandleProvisionStaff)
	r.Post("/staff/invite", h.HandleInviteStaff)
	r.Post("/staff/hire", h.HandleHireCandidate)
}

// writeReport flattens the report into the success envelope so callers read
// {"success": true, "linked": 3, ...} rather than a nested object.
func writeReport(w http.ResponseWriter, report any) {
	httputil.WriteJSONMerged(w, http.StatusOK, map[string]any{"success": true}, report)
}

// HandleLinkAllStaff handles POST /admin/identity/link-staff.
func (h *Handler) HandleLinkAllStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	report, err := h.service.LinkAllStaff(ctx)
	if err != nil {
		h.logError(ctx, "bulk staff linking failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "bulk staff linking handled",
		"request_id", requestcontext.RequestID(ctx),
		"linked", report.Linked,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeReport(w, report)
}

// HandleLinkSelf handles POST /identity/link-self.
func (h *Handler) HandleLinkSelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.LinkSelf(ctx)
	if err != nil {
		h.logError(ctx, "self link failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeReport(w, report)
}

// HandleSyncProfile handles POST /identity/sync-profile. The body is optional;
// an empty body syncs the caller's stored profile.
func (h *Handler) HandleSyncProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeJSONOptional[SyncProfileRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.SyncProfile(ctx, req.ToParams())
	if err != nil {
		h.logError(ctx, "profile sync failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeReport(w, report)
}

// HandleAuditOwnership handles POST /admin/identity/audit-ownership.
func (h *Handler) HandleAuditOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeJSONOptional[AuditOwnershipRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.AuditOwnership(ctx, req.Entities)
	if err != nil {
		h.logError(ctx, "ownership audit failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeReport(w, report)
}

// HandleProvisionStaff handles POST /admin/identity/provision-staff.
func (h *Handler) HandleProvisionStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.ProvisionStaff(ctx)
	if err != nil {
		h.logError(ctx, "staff provisioning failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeReport(w, report)
}

// HandleInviteStaff handles POST /admin/staff/invite.
func (h *Handler) HandleInviteStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeJSON[InviteStaffRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.InviteStaffUser(ctx, req.ToParams())
	if err != nil {
		h.logError(ctx, "staff invite failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeReport(w, report)
}

// HandleHireCandidate handles POST /admin/staff/hire.
func (h *Handler) HandleHireCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.DecodeJSON[HireCandidateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.HireCandidate(ctx, req.ToParams())
	if err != nil {
		h.logError(ctx, "candidate hire failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeReport(w, report)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
		"error", err,
	)
}
