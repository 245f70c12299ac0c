package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The entity gateway returns these
// (optionally wrapped) so services can translate them into domain errors with
// the right code.
//
// These represent factual states about stored records, not validation
// failures:
// - ErrNotFound: record does not exist in the collection
// - ErrConflict: a record with the same identity already exists
// - ErrInvalidState: record in wrong state for the requested operation
// - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
