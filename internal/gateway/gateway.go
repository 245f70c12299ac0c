// Package gateway defines the boundary to the hosted backend's entity store.
//
// The store is a collection-of-documents API: each call is independently
// consistent, but there is no snapshot isolation across calls and no
// transactions. Reconciliation jobs therefore snapshot what they need up
// front and treat every write as an isolated, idempotent operation.
package gateway

import "context"

// Collection names the entity collections the reconciliation engine touches.
type Collection string

const (
	Users      Collection = "users"
	Staff      Collection = "staff"
	Candidates Collection = "candidates"
	Leads      Collection = "leads"
	Bookings   Collection = "bookings"
)

// Doc is a raw backend document. The directory layer converts these to typed
// models and normalizes legacy sentinel values on the way in.
type Doc map[string]any

// ID extracts the document's id field, if present.
func (d Doc) ID() string {
	if v, ok := d["id"].(string); ok {
		return v
	}
	return ""
}

// Predicate is an equality filter on an indexed field. The store supports at
// least equality on email, status, and type fields.
type Predicate struct {
	Field  string
	Equals string
}

// Gateway is the entity store boundary. Implementations: memory (tests, dev)
// and postgres (jsonb document collections).
type Gateway interface {
	List(ctx context.Context, c Collection) ([]Doc, error)
	Filter(ctx context.Context, c Collection, preds ...Predicate) ([]Doc, error)
	Get(ctx context.Context, c Collection, id string) (Doc, error)
	Create(ctx context.Context, c Collection, doc Doc) error
	// Update applies a shallow merge patch to the identified document.
	Update(ctx context.Context, c Collection, id string, patch Doc) error
	// BulkCreate inserts all documents in one call; all-or-nothing from the
	// store's perspective.
	BulkCreate(ctx context.Context, c Collection, docs []Doc) error
}
