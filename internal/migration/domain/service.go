package domain

import (
	"context"
	"errors"
)

// Service runs the full migration once: users, then accounts with their
// assignments and subscriptions, in strict dependency order. The first
// error of any kind aborts the run; documents already written stay.
type Service interface {
	Run(ctx context.Context) error
}

var (
	ErrContractorNotFound   = errors.New("contractor_not_found")
	ErrReloadNotFound       = errors.New("reload_not_found")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
	ErrDuplicateEmails      = errors.New("duplicate_emails")
)
