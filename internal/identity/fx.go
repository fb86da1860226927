package identity

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/daasly/ivy-migration/internal/config"
	"github.com/daasly/ivy-migration/internal/identity/domain"
	"github.com/daasly/ivy-migration/internal/identity/firebaseauth"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var Module = fx.Module("identity",
	fx.Provide(func(cfg config.Config) (*auth.Client, error) {
		ctx := context.Background()

		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}

		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
		if err != nil {
			return nil, err
		}
		return app.Auth(ctx)
	}),
	fx.Provide(func(client *auth.Client, log *zap.Logger) domain.Provisioner {
		return firebaseauth.New(client, log)
	}),
)
