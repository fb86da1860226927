package domain

import "context"

// Source loads the legacy collections wholesale. The migration runs
// against a fixed snapshot, so every method returns the full collection.
type Source interface {
	Users(ctx context.Context) ([]User, error)
	Assignments(ctx context.Context) ([]Assignment, error)
	Reloads(ctx context.Context) ([]Reload, error)
	Subscriptions(ctx context.Context) ([]Subscription, error)
}
