package assessment_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"learnpath/internal/agent"
	"learnpath/internal/catalog"
	"learnpath/internal/config"
	"learnpath/internal/repositories"
	"learnpath/internal/services"
)

var Module = fx.Provide(provideAssessmentService)

func provideAssessmentService(
	lc fx.Lifecycle,
	cfg *config.Config,
	sessions repositories.SessionRepository,
	gateway agent.Gateway,
	cat *catalog.Catalog,
	logger *zap.Logger,
) services.AssessmentServiceInterface {
	svc := services.NewAssessmentService(sessions, gateway, cat, services.AssessmentOptions{
		VerifyScores:         cfg.ScoringMode == config.ScoringVerified,
		HistoryAppendTimeout: cfg.HistoryAppendTimeout,
	}, logger.Named("assessment"))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				svc.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				logger.Warn("history notifications still pending at shutdown")
				return ctx.Err()
			}
		},
	})
	return svc
}
