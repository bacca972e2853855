package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Service identifies which of the two HTTP services a process runs as.
type Service string

const (
	ServiceRedactor Service = "redactor"
	ServiceQuery    Service = "query"
)

// Config holds runtime configuration shared by every binary in the repo.
type Config struct {
	// Server
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RedactAddr     string `env:"REDACT_ADDR" envDefault:"127.0.0.1:8000"`
	QueryAddr      string `env:"QUERY_ADDR" envDefault:"127.0.0.1:8001"`
	RawErrorDetail bool   `env:"RAW_ERROR_DETAIL" envDefault:"true"` // false hides provider errors from clients

	// LLM. Each service owns a separate credential.
	RedactAPIKey string        `env:"MIDDLE_BOT_API_KEY"`
	QueryAPIKey  string        `env:"TARGET_CHATBOT_API_KEY"`
	LLMBaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"mixtral-8x7b-32768"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"` // 0 disables the per-call deadline
	StartupCheck bool          `env:"STARTUP_CHECK" envDefault:"true"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Client
	RedactURL string `env:"REDACT_URL" envDefault:"http://127.0.0.1:8000/redact/"`
	QueryURL  string `env:"QUERY_URL" envDefault:"http://127.0.0.1:8001/query/"`

	// Launcher. Empty means "next to the launcher binary".
	RedactorBin string `env:"REDACTOR_BIN"`
	QueryBin    string `env:"QUERY_BIN"`
}

// ConfigurationError reports a required setting missing from the environment.
type ConfigurationError struct {
	Var string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s environment variable is required", e.Var)
}

// Load reads configuration from environment variables with defaults. A value
// that does not parse for its field is an error.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// APIKey returns the credential owned by svc, or a *ConfigurationError when it is unset.
func (c Config) APIKey(svc Service) (string, error) {
	switch svc {
	case ServiceRedactor:
		if c.RedactAPIKey == "" {
			return "", &ConfigurationError{Var: "MIDDLE_BOT_API_KEY"}
		}
		return c.RedactAPIKey, nil
	case ServiceQuery:
		if c.QueryAPIKey == "" {
			return "", &ConfigurationError{Var: "TARGET_CHATBOT_API_KEY"}
		}
		return c.QueryAPIKey, nil
	default:
		return "", fmt.Errorf("unknown service %q", svc)
	}
}

// Addr returns the bind address for svc.
func (c Config) Addr(svc Service) string {
	if svc == ServiceQuery {
		return c.QueryAddr
	}
	return c.RedactAddr
}
