package catalog_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"learnpath/internal/catalog"
	"learnpath/internal/config"
)

var Module = fx.Provide(provideCatalog)

// provideCatalog uses CATALOG_PATH when set and the embedded catalog otherwise.
func provideCatalog(cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	logger.Info("loading question catalog", zap.String("path", cfg.CatalogPath))
	return catalog.Load(cfg.CatalogPath)
}
