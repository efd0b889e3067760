package agent_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"learnpath/internal/agent"
	"learnpath/internal/catalog"
	"learnpath/internal/config"
	"learnpath/internal/repositories"
)

var Module = fx.Options(
	fx.Provide(provideAgentClient),
	fx.Provide(provideAgentManager),
	fx.Provide(func(m *agent.Manager) agent.Gateway { return m }),
)

const (
	hostedTemperature = 0.7
	hostedMaxTokens   = 4000
)

func provideAgentClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (agent.Client, error) {
	ac := cfg.Agent
	if ac.Provider == config.ProviderLetta {
		logger.Info("agent provider", zap.String("provider", ac.Provider), zap.String("base_url", ac.LettaBaseURL))
		return agent.NewLettaClient(ac.LettaBaseURL, ac.LettaAPIKey, ac.Timeout), nil
	}

	cc := agent.CompleterConfig{
		Provider:    ac.Provider,
		Temperature: hostedTemperature,
		MaxTokens:   hostedMaxTokens,
		Timeout:     ac.Timeout,
	}
	switch ac.Provider {
	case config.ProviderOpenAI:
		cc.APIKey, cc.BaseURL, cc.Model = ac.OpenAIAPIKey, ac.OpenAIBaseURL, ac.OpenAIModel
	case config.ProviderGemini:
		cc.APIKey, cc.Model = ac.GeminiAPIKey, ac.GeminiModel
	}

	completer, err := agent.NewCompleter(context.Background(), cc)
	if err != nil {
		return nil, err
	}
	if closer, ok := completer.(io.Closer); ok {
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return closer.Close() }})
	}
	logger.Info("agent provider", zap.String("provider", ac.Provider), zap.String("model", cc.Model))
	return agent.NewHostedClient(completer), nil
}

func provideAgentManager(
	cfg *config.Config,
	client agent.Client,
	sessions repositories.SessionRepository,
	cat *catalog.Catalog,
	logger *zap.Logger,
) (*agent.Manager, error) {
	create, err := agent.BuildCreateRequest(cat, agent.ProvisionOptions{
		Model:                 cfg.Agent.Model,
		ModelEndpointType:     cfg.Agent.ModelEndpointType,
		EmbeddingModel:        cfg.Agent.EmbeddingModel,
		EmbeddingEndpointType: cfg.Agent.EmbeddingEndpointType,
	})
	if err != nil {
		return nil, err
	}

	return agent.NewManager(client, sessions, create, agent.ManagerConfig{
		SeedAgentID: cfg.Agent.SeedAgentID,
		SettleDelay: cfg.Agent.SettleDelay,
	}, logger.Named("agent")), nil
}
