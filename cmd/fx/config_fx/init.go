package config_fx

import (
	"go.uber.org/fx"

	"learnpath/internal/config"
)

var Module = fx.Provide(config.Load)
