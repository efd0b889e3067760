package controllers_fx

import (
	"go.uber.org/fx"

	"learnpath/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAssessmentController),
	fx.Provide(controllers.NewPageController))
