package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/daasly/ivy-migration/internal/billing"
	"github.com/daasly/ivy-migration/internal/clock"
	"github.com/daasly/ivy-migration/internal/config"
	"github.com/daasly/ivy-migration/internal/docstore"
	"github.com/daasly/ivy-migration/internal/identity"
	"github.com/daasly/ivy-migration/internal/legacy"
	"github.com/daasly/ivy-migration/internal/logger"
	"github.com/daasly/ivy-migration/internal/migration"
	migrationdomain "github.com/daasly/ivy-migration/internal/migration/domain"
	"github.com/daasly/ivy-migration/internal/pacing"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		clock.Module,
		pacing.Module,
		legacy.Module,
		docstore.Module,
		identity.Module,
		billing.Module,
		migration.Module,
		fx.Invoke(run),
	)
	app.Run()
}

// run kicks off the migration once the app is up and shuts the process
// down when it finishes. The first error aborts the whole run; there is
// no retry and no rollback of documents already written.
func run(lc fx.Lifecycle, sd fx.Shutdowner, log *zap.Logger, svc migrationdomain.Service) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("starting migration", zap.String("version", version))
				if err := svc.Run(context.Background()); err != nil {
					log.Fatal("migration failed", zap.Error(err))
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}
