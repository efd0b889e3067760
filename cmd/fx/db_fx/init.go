package db_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"learnpath/internal/config"
	"learnpath/internal/infra"
	"learnpath/internal/repositories"
	mem "learnpath/pkg/memcache"
)

var Module = fx.Provide(
	provideSessionRepository)

func provideSessionRepository(lc fx.Lifecycle, cfg *config.Config, store mem.Store, logger *zap.Logger) (repositories.SessionRepository, error) {
	ttl := cfg.Store.SessionTTL
	logger.Info("session store", zap.String("driver", cfg.Store.Driver), zap.Duration("ttl", ttl))

	switch cfg.Store.Driver {
	case config.StoreMemory:
		return repositories.NewMemorySessionRepository(store, ttl), nil

	case config.StoreSQLite:
		db, err := infra.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			infra.CloseSQLite(db)
			return nil
		}})
		return repositories.NewSQLiteSessionRepository(db, ttl)

	case config.StorePostgres:
		db, err := infra.OpenPostgresql(cfg.Store.PostgresURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		}})
		return repositories.NewPostgresSessionRepository(db, ttl)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
