// Package config provides application configuration.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	ProviderLetta  = "letta"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	ScoringDelegated = "delegated"
	ScoringVerified  = "verified"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	SecretKey    string
	CookieSecure bool

	Store StoreConfig
	Agent AgentConfig

	ScoringMode          string
	CatalogPath          string
	HistoryAppendTimeout time.Duration
}

type StoreConfig struct {
	Driver      string
	SQLitePath  string
	PostgresURL string
	SessionTTL  time.Duration
}

// AgentConfig selects where the agent lives and how it is provisioned.
type AgentConfig struct {
	Provider string

	LettaBaseURL string
	LettaAPIKey  string
	SeedAgentID  string

	Model                 string
	ModelEndpointType     string
	EmbeddingModel        string
	EmbeddingEndpointType string

	Timeout     time.Duration
	SettleDelay time.Duration

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var bad envErrors
	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		AppEnv:       getEnv("APP_ENV", "production"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SecretKey:    getEnv("SECRET_KEY", ""),
		CookieSecure: bad.bool("COOKIE_SECURE", false),
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
			SQLitePath:  getEnv("SQLITE_PATH", "./data/learnpath.db"),
			PostgresURL: getEnv("POSTGRES_URL", ""),
			SessionTTL:  bad.duration("SESSION_TTL", 0),
		},
		Agent: AgentConfig{
			Provider:              strings.ToLower(getEnv("AGENT_PROVIDER", ProviderLetta)),
			LettaBaseURL:          getEnv("LETTA_BASE_URL", "http://localhost:8283"),
			LettaAPIKey:           getEnv("LETTA_API_KEY", ""),
			SeedAgentID:           getEnv("LETTA_AGENT_ID", ""),
			Model:                 getEnv("AGENT_MODEL", "gpt-4"),
			ModelEndpointType:     getEnv("AGENT_MODEL_ENDPOINT_TYPE", "openai"),
			EmbeddingModel:        getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
			EmbeddingEndpointType: getEnv("EMBEDDING_ENDPOINT_TYPE", "openai"),
			Timeout:               bad.duration("AGENT_TIMEOUT", 120*time.Second),
			SettleDelay:           bad.duration("AGENT_SETTLE_DELAY", 2*time.Second),
			OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
			GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
			GeminiModel:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		ScoringMode:          strings.ToLower(getEnv("SCORING_MODE", ScoringDelegated)),
		CatalogPath:          getEnv("CATALOG_PATH", ""),
		HistoryAppendTimeout: bad.duration("HISTORY_APPEND_TIMEOUT", 30*time.Second),
	}

	if len(bad) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(bad...))
	}

	if cfg.SecretKey == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SecretKey = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY cannot be empty")
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH cannot be empty when STORE_DRIVER=sqlite")
		}
	case StorePostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL cannot be empty when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must be >= 0")
	}

	switch c.Agent.Provider {
	case ProviderLetta:
		if c.Agent.LettaBaseURL == "" {
			return fmt.Errorf("LETTA_BASE_URL cannot be empty")
		}
	case ProviderOpenAI:
		if c.Agent.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY cannot be empty when AGENT_PROVIDER=openai")
		}
	case ProviderGemini:
		if c.Agent.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY cannot be empty when AGENT_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unknown AGENT_PROVIDER %q", c.Agent.Provider)
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT must be > 0")
	}
	if c.Agent.SettleDelay < 0 {
		return fmt.Errorf("AGENT_SETTLE_DELAY must be >= 0")
	}

	switch c.ScoringMode {
	case ScoringDelegated, ScoringVerified:
	default:
		return fmt.Errorf("unknown SCORING_MODE %q", c.ScoringMode)
	}
	if c.HistoryAppendTimeout <= 0 {
		return fmt.Errorf("HISTORY_APPEND_TIMEOUT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func randomSecret() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// envErrors collects values that are set but cannot be parsed, so a typo
// fails Load instead of silently using the default.
type envErrors []error

func (e *envErrors) bool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		*e = append(*e, fmt.Errorf("%s must be a boolean, got %q", key, value))
		return fallback
	}
}

// duration accepts Go durations ("90s") or a bare number of seconds.
func (e *envErrors) duration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if d, err := time.ParseDuration(trimmed); err == nil {
		return d
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return time.Duration(n) * time.Second
	}
	*e = append(*e, fmt.Errorf("%s must be a duration such as 90s or a number of seconds, got %q", key, value))
	return fallback
}
