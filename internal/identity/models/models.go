// Package models defines the entities the reconciliation engine works over.
// Field tags match the hosted backend's wire names; the directory layer
// normalizes legacy sentinel values on read so the rest of the code never
// sees them.
package models

import (
	"strings"

	id "shutterops/pkg/domain"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	EmploymentStatusActive = "active"
	WorkerTypeW2Employee   = "w2_employee"
	PayTypeSalary          = "salary"
)

// Profile is the fixed syncable field set shared between User and Staff.
// The name field is intentionally excluded: it maps between User.full_name
// and Staff.preferred_name and is handled by the sync engine.
type Profile struct {
	ProfilePhotoURL              string `json:"profile_photo_url"`
	PersonalEmail                string `json:"personal_email"`
	Phone                        string `json:"phone"`
	Address                      string `json:"address"`
	Bio                          string `json:"bio"`
	LinkedinLink                 string `json:"linkedin_link"`
	FacebookLink                 string `json:"facebook_link"`
	InstagramLink                string `json:"instagram_link"`
	TiktokLink                   string `json:"tiktok_link"`
	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`
	EmergencyContactEmail        string `json:"emergency_contact_email"`
}

// User is a login identity record, created by the external invite flow.
type User struct {
	ID       id.UserID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Profile
}

// Staff is a business/HR record. UserID is the optional link to a User;
// after normalization an unlinked record carries the empty string.
type Staff struct {
	ID               id.StaffID `json:"id"`
	UserID           string     `json:"user_id"`
	CompanyEmail     string     `json:"company_email"`
	LegalFullName    string     `json:"legal_full_name"`
	PreferredName    string     `json:"preferred_name"`
	EmploymentStatus string     `json:"employment_status"`
	WorkerType       string     `json:"worker_type"`
	PayType          string     `json:"pay_type"`
	CurrentSalary    float64    `json:"current_salary"`
	Timezone         string     `json:"timezone"`
	StartDate        string     `json:"start_date"`
	Departments      []string   `json:"departments"`
	Profile
}

// Linked reports whether the staff record has a meaningful user link.
// Callers must only see normalized values; see NormalizeLink.
func (s Staff) Linked() bool { return s.UserID != "" }

// DisplayName picks the best available name for the staff record.
func (s Staff) DisplayName() string {
	if s.PreferredName != "" {
		return s.PreferredName
	}
	return s.LegalFullName
}

// NormalizeLink collapses the three historical "unset" representations of a
// user link (null, empty string, and the literal string "null" left behind by
// an old migration) into the single canonical empty string. The literal is
// never written back.
func NormalizeLink(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

// Candidate is a pre-hire record; only the fields the hire workflow copies.
type Candidate struct {
	ID       id.CandidateID `json:"id"`
	Email    string         `json:"email"`
	FullName string         `json:"full_name"`
	Phone    string         `json:"phone"`
	Status   string         `json:"status"`
}

// Lead carries the attribution pair: owner_id references a User and
// created_by denormalizes that user's email.
type Lead struct {
	ID        id.LeadID `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedBy string    `json:"created_by"`
}

// Booking carries the same attribution pair with a different actor-id field.
type Booking struct {
	ID         id.BookingID `json:"id"`
	BookedByID string       `json:"booked_by_id"`
	CreatedBy  string       `json:"created_by"`
}
