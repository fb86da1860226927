// Package firebaseauth provisions identities through Firebase Auth.
package firebaseauth

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/daasly/ivy-migration/internal/identity/domain"
	"go.uber.org/zap"
)

type Provisioner struct {
	client *auth.Client
	log    *zap.Logger
}

func New(client *auth.Client, log *zap.Logger) *Provisioner {
	return &Provisioner{
		client: client,
		log:    log.Named("identity.firebase"),
	}
}

func (p *Provisioner) Create(ctx context.Context, spec domain.Spec) (domain.Identity, error) {
	if strings.TrimSpace(spec.Email) == "" {
		return domain.Identity{}, domain.ErrMissingEmail
	}

	params := (&auth.UserToCreate{}).
		DisplayName(spec.DisplayName).
		Email(spec.Email).
		Disabled(false)
	if spec.UID != "" {
		params = params.UID(spec.UID)
	}

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity: create user %s: %w", spec.Email, err)
	}

	p.log.Debug("identity created", zap.String("uid", record.UID))
	return domain.Identity{UID: record.UID}, nil
}

func (p *Provisioner) SetRoleClaim(ctx context.Context, uid string, role string) error {
	if err := p.client.SetCustomUserClaims(ctx, uid, map[string]any{"role": role}); err != nil {
		return fmt.Errorf("identity: set role claim for %s: %w", uid, err)
	}
	return nil
}
