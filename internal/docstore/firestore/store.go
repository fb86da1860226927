// Package firestore implements the document store against Cloud Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/daasly/ivy-migration/internal/docstore/domain"
)

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Set(ctx context.Context, ref domain.Ref, fields map[string]any) error {
	if ref.Collection == "" || ref.ID == "" {
		return domain.ErrInvalidRef
	}

	if _, err := s.client.Collection(ref.Collection).Doc(ref.ID).Set(ctx, s.resolve(fields)); err != nil {
		return fmt.Errorf("docstore: set %s: %w", ref.Path(), err)
	}
	return nil
}

// resolve rewrites domain.Ref values into native document references so
// the stored fields carry real pointers rather than path strings.
func (s *Store) resolve(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = s.resolveValue(value)
	}
	return out
}

func (s *Store) resolveValue(value any) any {
	switch v := value.(type) {
	case domain.Ref:
		return s.client.Collection(v.Collection).Doc(v.ID)
	case []domain.Ref:
		refs := make([]any, len(v))
		for i, r := range v {
			refs[i] = s.client.Collection(r.Collection).Doc(r.ID)
		}
		return refs
	case map[string]any:
		return s.resolve(v)
	case []map[string]any:
		maps := make([]any, len(v))
		for i, m := range v {
			maps[i] = s.resolve(m)
		}
		return maps
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = s.resolveValue(item)
		}
		return items
	default:
		return value
	}
}
