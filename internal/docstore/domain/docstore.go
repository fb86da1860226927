// Package domain defines the destination document store contract.
package domain

import (
	"context"
	"errors"
)

// Ref points at a document by (collection, id). Inside a document's
// fields a Ref is stored as a first-class reference, not an embedded
// copy; the concrete store translates it to its native reference type.
type Ref struct {
	Collection string
	ID         string
}

func (r Ref) Path() string { return r.Collection + "/" + r.ID }

// Store writes documents. Document identifiers are always caller
// supplied here; callers that want store-generated ids generate them
// before the write.
type Store interface {
	Set(ctx context.Context, ref Ref, fields map[string]any) error
}

var ErrInvalidRef = errors.New("invalid_ref")
