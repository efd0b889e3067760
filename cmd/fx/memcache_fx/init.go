package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"learnpath/internal/config"
	mem "learnpath/pkg/memcache"
)

const sweepInterval = time.Minute

var Module = fx.Provide(provideMemcacheClient)

// provideMemcacheClient returns the in-process store. Expired entries are
// swept periodically when sessions carry a TTL.
func provideMemcacheClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) mem.Store {
	store := mem.NewMemoryStore()
	if cfg.Store.SessionTTL <= 0 {
		return store
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-stop:
						return
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							logger.Debug("expired sessions swept", zap.Int("count", n))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
	return store
}
