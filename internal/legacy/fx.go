package legacy

import (
	"github.com/daasly/ivy-migration/internal/config"
	"github.com/daasly/ivy-migration/internal/legacy/domain"
	"github.com/daasly/ivy-migration/internal/legacy/jsonsource"
	"go.uber.org/fx"
)

var Module = fx.Module("legacy.source",
	fx.Provide(func(cfg config.Config) domain.Source {
		return jsonsource.New(cfg.DataDir)
	}),
)
