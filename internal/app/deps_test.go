package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"redact-relay/internal/cache"
	"redact-relay/internal/config"
	"redact-relay/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig() config.Config {
	return config.Config{
		RedactAPIKey:  "gsk_redact",
		QueryAPIKey:   "gsk_query",
		LLMBaseURL:    "http://127.0.0.1:1/v1",
		LLMModel:      "mixtral-8x7b-32768",
		CacheProvider: "none",
		CacheTTL:      60,
	}
}

func TestAssemble(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		svc    config.Service
		mutate func(*config.Config)
		check  func(*testing.T, Deps, error)
	}{
		{
			name: "redactor without credential fails",
			svc:  config.ServiceRedactor,
			mutate: func(c *config.Config) {
				c.RedactAPIKey = ""
			},
			check: func(t *testing.T, _ Deps, err error) {
				var cfgErr *config.ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "MIDDLE_BOT_API_KEY", cfgErr.Var)
			},
		},
		{
			name: "query without credential fails",
			svc:  config.ServiceQuery,
			mutate: func(c *config.Config) {
				c.QueryAPIKey = ""
			},
			check: func(t *testing.T, _ Deps, err error) {
				var cfgErr *config.ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "TARGET_CHATBOT_API_KEY", cfgErr.Var)
			},
		},
		{
			name: "noop cache by default",
			svc:  config.ServiceQuery,
			check: func(t *testing.T, d Deps, err error) {
				require.NoError(t, err)
				assert.IsType(t, &cache.NoOpCache{}, d.Cache)
				assert.NotNil(t, d.LLM)
				assert.Equal(t, config.ServiceQuery, d.Service)
			},
		},
		{
			name: "redis cache wraps client",
			svc:  config.ServiceRedactor,
			mutate: func(c *config.Config) {
				c.CacheProvider = "redis"
				c.RedisAddr = mr.Addr()
			},
			check: func(t *testing.T, d Deps, err error) {
				require.NoError(t, err)
				assert.IsType(t, &cache.RedisCache{}, d.Cache)
				assert.IsType(t, &llm.CachingClient{}, d.LLM)
				assert.NoError(t, d.Close())
			},
		},
		{
			name: "unknown cache provider",
			svc:  config.ServiceRedactor,
			mutate: func(c *config.Config) {
				c.CacheProvider = "memcached"
			},
			check: func(t *testing.T, _ Deps, err error) {
				assert.ErrorContains(t, err, "invalid CACHE_PROVIDER")
			},
		},
		{
			name: "startup check failure is fatal",
			svc:  config.ServiceRedactor,
			mutate: func(c *config.Config) {
				c.StartupCheck = true // base URL points at a closed port
			},
			check: func(t *testing.T, _ Deps, err error) {
				require.Error(t, err)
				var perr *llm.ProviderError
				assert.True(t, errors.As(err, &perr))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			deps, err := Assemble(context.Background(), cfg, tt.svc, discardLogger())
			tt.check(t, deps, err)
		})
	}
}

func TestVerify(t *testing.T) {
	m := new(llm.MockClient)
	m.On("Verify", mock.Anything, "m").Return(nil).Once()
	assert.NoError(t, Verify(context.Background(), discardLogger(), m, "m"))

	m.On("Verify", mock.Anything, "bad").Return(&llm.ProviderError{Err: errors.New("Invalid API Key")}).Once()
	err := Verify(context.Background(), discardLogger(), m, "bad")
	assert.ErrorContains(t, err, "Invalid API Key")

	m.AssertExpectations(t)
}

func TestDepsCloseWithoutCache(t *testing.T) {
	assert.NoError(t, Deps{}.Close())
}

func TestBuildRejectsMalformedEnv(t *testing.T) {
	t.Setenv("MIDDLE_BOT_API_KEY", "gsk_redact")
	t.Setenv("STARTUP_CHECK", "sometimes")

	deps, err := Build(context.Background(), config.ServiceRedactor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StartupCheck")
	assert.NotNil(t, deps.Log)
	assert.Nil(t, deps.LLM)
}
