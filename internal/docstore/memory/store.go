// Package memory is an in-memory document store for tests.
package memory

import (
	"context"
	"sync"

	"github.com/daasly/ivy-migration/internal/docstore/domain"
)

type Store struct {
	mu     sync.Mutex
	docs   map[string]map[string]map[string]any
	writes []domain.Ref
}

func New() *Store {
	return &Store{docs: make(map[string]map[string]map[string]any)}
}

func (s *Store) Set(ctx context.Context, ref domain.Ref, fields map[string]any) error {
	if ref.Collection == "" || ref.ID == "" {
		return domain.ErrInvalidRef
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.docs[ref.Collection]
	if col == nil {
		col = make(map[string]map[string]any)
		s.docs[ref.Collection] = col
	}
	col[ref.ID] = fields
	s.writes = append(s.writes, ref)
	return nil
}

// Get returns a stored document's fields.
func (s *Store) Get(ref domain.Ref) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.docs[ref.Collection]
	if !ok {
		return nil, false
	}
	fields, ok := col[ref.ID]
	return fields, ok
}

// Collection returns all documents of a collection keyed by id.
func (s *Store) Collection(name string) map[string]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]map[string]any, len(s.docs[name]))
	for id, fields := range s.docs[name] {
		out[id] = fields
	}
	return out
}

// Writes returns every Set in call order, including overwrites.
func (s *Store) Writes() []domain.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Ref, len(s.writes))
	copy(out, s.writes)
	return out
}
