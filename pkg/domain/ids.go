// Package domain defines typed identifiers shared across the platform.
//
// The hosted backend issues opaque string IDs; wrapping them in distinct types
// keeps a StaffID from being passed where a UserID is expected. The compiler
// enforces the distinction, so misuse is a build error rather than a data bug.
package domain

import "strings"

type (
	// UserID identifies a login identity record.
	UserID string
	// StaffID identifies a business/HR record.
	StaffID string
	// CandidateID identifies a pre-hire record.
	CandidateID string
	// LeadID identifies a sales lead record.
	LeadID string
	// BookingID identifies a booking record.
	BookingID string
)

func (id UserID) String() string      { return string(id) }
func (id StaffID) String() string     { return string(id) }
func (id CandidateID) String() string { return string(id) }
func (id LeadID) String() string      { return string(id) }
func (id BookingID) String() string   { return string(id) }

// IsEmpty reports whether the ID carries no value.
func (id UserID) IsEmpty() bool      { return strings.TrimSpace(string(id)) == "" }
func (id StaffID) IsEmpty() bool     { return strings.TrimSpace(string(id)) == "" }
func (id CandidateID) IsEmpty() bool { return strings.TrimSpace(string(id)) == "" }
func (id LeadID) IsEmpty() bool      { return strings.TrimSpace(string(id)) == "" }
func (id BookingID) IsEmpty() bool   { return strings.TrimSpace(string(id)) == "" }
