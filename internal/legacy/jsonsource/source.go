// Package jsonsource reads legacy collections from the JSON exports
// written by the extraction utility (<dir>/<collection>.json).
package jsonsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daasly/ivy-migration/internal/legacy/domain"
)

const (
	usersFile         = "users.json"
	assignmentsFile   = "assignments.json"
	reloadsFile       = "reloads.json"
	subscriptionsFile = "subscriptions.json"
)

type Source struct {
	dir string
}

func New(dir string) *Source {
	return &Source{dir: dir}
}

func (s *Source) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.load(ctx, usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Source) Assignments(ctx context.Context) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	if err := s.load(ctx, assignmentsFile, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *Source) Reloads(ctx context.Context) ([]domain.Reload, error) {
	var reloads []domain.Reload
	if err := s.load(ctx, reloadsFile, &reloads); err != nil {
		return nil, err
	}
	return reloads, nil
}

func (s *Source) Subscriptions(ctx context.Context) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	if err := s.load(ctx, subscriptionsFile, &subscriptions); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (s *Source) load(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("legacy: read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("legacy: decode %s: %w", name, err)
	}
	return nil
}
