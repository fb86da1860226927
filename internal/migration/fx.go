package migration

import (
	"github.com/daasly/ivy-migration/internal/migration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("migration.service",
	fx.Provide(service.NewService),
)
