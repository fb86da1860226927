// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the root logger. Console-friendly output: the program
// is an operator-driven batch run, not a log-shipped service.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg.Build()
}

var Module = fx.Module("logger",
	fx.Provide(New),
)
