package handler

import (
	"strings"

	"shutterops/internal/identity/profilesync"
	"shutterops/internal/identity/service"
	id "shutterops/pkg/domain"
	dErrors "shutterops/pkg/domain-errors"
)

// SyncProfileRequest is the HTTP request body for POST /identity/sync-profile.
// Both fields are optional: user_id defaults to the caller, and a nil payload
// means "sync from the stored user record".
type SyncProfileRequest struct {
	UserID  string              `json:"user_id"`
	Payload *profilesync.Source `json:"payload"`
}

// ToParams converts the request body into service parameters.
func (r SyncProfileRequest) ToParams() service.SyncProfileParams {
	return service.SyncProfileParams{
		UserID:  id.UserID(strings.TrimSpace(r.UserID)),
		Payload: r.Payload,
	}
}

// AuditOwnershipRequest is the HTTP request body for
// POST /admin/identity/audit-ownership. An empty entity list audits everything.
type AuditOwnershipRequest struct {
	Entities []string `json:"entities"`
}

// InviteStaffRequest is the HTTP request body for POST /admin/staff/invite.
type InviteStaffRequest struct {
	StaffID      string   `json:"staff_id"`
	CompanyEmail string   `json:"company_email"`
	Departments  []string `json:"departments"`
}

// Validate checks required fields before the service is involved.
func (r *InviteStaffRequest) Validate() error {
	r.StaffID = strings.TrimSpace(r.StaffID)
	if r.StaffID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "staff_id is required")
	}
	r.CompanyEmail = strings.TrimSpace(r.CompanyEmail)
	if r.CompanyEmail == "" {
		return dErrors.New(dErrors.CodeBadRequest, "company_email is required")
	}
	return nil
}

// ToParams converts the request body into service parameters.
func (r InviteStaffRequest) ToParams() service.InviteStaffUserParams {
	return service.InviteStaffUserParams{
		StaffID:      id.StaffID(r.StaffID),
		CompanyEmail: r.CompanyEmail,
		Departments:  r.Departments,
	}
}

// HireCandidateRequest is the HTTP request body for POST /admin/staff/hire.
type HireCandidateRequest struct {
	CandidateID string               `json:"candidate_id"`
	Staff       service.StaffPayload `json:"staff"`
}

// Validate checks required fields before the service is involved.
func (r *HireCandidateRequest) Validate() error {
	r.CandidateID = strings.TrimSpace(r.CandidateID)
	if r.CandidateID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "candidate_id is required")
	}
	return nil
}

// ToParams converts the request body into service parameters.
func (r HireCandidateRequest) ToParams() service.HireCandidateParams {
	return service.HireCandidateParams{
		CandidateID: id.CandidateID(r.CandidateID),
		Staff:       r.Staff,
	}
}
