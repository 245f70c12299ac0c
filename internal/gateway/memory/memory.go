package memory

import (
	"context"
	"fmt"
	"sync"

	"shutterops/internal/gateway"
	"shutterops/pkg/platform/sentinel"
)

// Store is an in-memory entity gateway. It backs unit tests and local dev
// mode. Documents are deep-copied on the way in and out so callers cannot
// mutate stored state through shared maps.
type Store struct {
	mu          sync.RWMutex
	collections map[gateway.Collection]map[string]gateway.Doc

	// UpdateErr, when set for an id, makes Update fail for that document.
	// Lets tests exercise per-item failure isolation.
	updateErrs map[string]error
}

func New() *Store {
	return &Store{
		collections: make(map[gateway.Collection]map[string]gateway.Doc),
		updateErrs:  make(map[string]error),
	}
}

// FailUpdate makes subsequent Update calls for the given document id fail.
func (s *Store) FailUpdate(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErrs[id] = err
}

func copyDoc(d gateway.Doc) gateway.Doc {
	out := make(gateway.Doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (s *Store) List(_ context.Context, c gateway.Collection) ([]gateway.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]gateway.Doc, 0, len(s.collections[c]))
	for _, d := range s.collections[c] {
		docs = append(docs, copyDoc(d))
	}
	return docs, nil
}

func (s *Store) Filter(_ context.Context, c gateway.Collection, preds ...gateway.Predicate) ([]gateway.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []gateway.Doc
	for _, d := range s.collections[c] {
		match := true
		for _, p := range preds {
			v, _ := d[p.Field].(string)
			if v != p.Equals {
				match = false
				break
			}
		}
		if match {
			docs = append(docs, copyDoc(d))
		}
	}
	return docs, nil
}

func (s *Store) Get(_ context.Context, c gateway.Collection, id string) (gateway.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.collections[c][id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", c, id, sentinel.ErrNotFound)
	}
	return copyDoc(d), nil
}

func (s *Store) Create(_ context.Context, c gateway.Collection, doc gateway.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := doc.ID()
	if id == "" {
		return fmt.Errorf("%s: document missing id: %w", c, sentinel.ErrInvalidState)
	}
	if s.collections[c] == nil {
		s.collections[c] = make(map[string]gateway.Doc)
	}
	if _, exists := s.collections[c][id]; exists {
		return fmt.Errorf("%s %q: %w", c, id, sentinel.ErrConflict)
	}
	s.collections[c][id] = copyDoc(doc)
	return nil
}

func (s *Store) Update(_ context.Context, c gateway.Collection, id string, patch gateway.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.updateErrs[id]; ok {
		return err
	}

	d, ok := s.collections[c][id]
	if !ok {
		return fmt.Errorf("%s %q: %w", c, id, sentinel.ErrNotFound)
	}
	for k, v := range patch {
		d[k] = v
	}
	return nil
}

func (s *Store) BulkCreate(ctx context.Context, c gateway.Collection, docs []gateway.Doc) error {
	// Validate up front so the batch is all-or-nothing like the real store.
	s.mu.RLock()
	for _, d := range docs {
		if d.ID() == "" {
			s.mu.RUnlock()
			return fmt.Errorf("%s: document missing id: %w", c, sentinel.ErrInvalidState)
		}
		if _, exists := s.collections[c][d.ID()]; exists {
			s.mu.RUnlock()
			return fmt.Errorf("%s %q: %w", c, d.ID(), sentinel.ErrConflict)
		}
	}
	s.mu.RUnlock()

	for _, d := range docs {
		if err := s.Create(ctx, c, d); err != nil {
			return err
		}
	}
	return nil
}

var _ gateway.Gateway = (*Store)(nil)
