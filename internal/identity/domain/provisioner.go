// Package domain defines the identity provider contract.
package domain

import (
	"context"
	"errors"
)

// Identity is a provisioned external identity record.
type Identity struct {
	UID string
}

// Spec describes the identity to create. A non-empty UID is reused as
// the identity's identifier; otherwise the provider allocates one.
type Spec struct {
	UID         string
	DisplayName string
	Email       string
}

// Provisioner creates identity records and assigns role claims.
// Failures are fatal to the run; there is no retry.
type Provisioner interface {
	Create(ctx context.Context, spec Spec) (Identity, error)
	SetRoleClaim(ctx context.Context, uid string, role string) error
}

var ErrMissingEmail = errors.New("missing_email")
