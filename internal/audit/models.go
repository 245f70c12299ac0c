package audit

import (
	"context"
	"time"
)

// Event is one structured audit record. Reconciliation jobs emit a completion
// event carrying their counts so admin actions stay traceable.
type Event struct {
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
}
