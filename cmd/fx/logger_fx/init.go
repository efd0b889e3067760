package logger_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"learnpath/internal/config"
)

var Module = fx.Options(
	fx.Provide(provideLogger),
	fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	}),
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	restore := zap.ReplaceGlobals(logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			restore()
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

// NewLogger builds a console logger in development and JSON otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
