package pacing

import (
	"github.com/daasly/ivy-migration/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("pacing",
	fx.Provide(func(cfg config.Config) Pacer {
		return NewFixed(cfg.WritePacing)
	}),
)
