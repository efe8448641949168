// Package logger provides the process-wide zap logger.
package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/roombox/roombox/internal/config"
)

// New builds the root logger: JSON in production, console in development.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

var Module = fx.Module("logger",
	fx.Provide(New),
	fx.Invoke(func(log *zap.Logger) {
		zap.ReplaceGlobals(log)
	}),
)
