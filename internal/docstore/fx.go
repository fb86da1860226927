package docstore

import (
	"context"

	firestoreclient "cloud.google.com/go/firestore"
	"github.com/daasly/ivy-migration/internal/config"
	"github.com/daasly/ivy-migration/internal/docstore/domain"
	"github.com/daasly/ivy-migration/internal/docstore/firestore"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

var Module = fx.Module("docstore",
	fx.Provide(func(lc fx.Lifecycle, cfg config.Config) (*firestoreclient.Client, error) {
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}

		client, err := firestoreclient.NewClient(context.Background(), cfg.ProjectID, opts...)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		return client, nil
	}),
	fx.Provide(func(client *firestoreclient.Client) domain.Store {
		return firestore.New(client)
	}),
)
