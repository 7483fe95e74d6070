package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 4*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, 70.0, cfg.Scoring.PassingThreshold)
	assert.Equal(t, "exclude", cfg.Scoring.FailurePolicy)
	assert.Equal(t, 3, cfg.Scoring.BatchSize)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 20, cfg.Portfolio.MaxRepos)
	assert.Equal(t, 100.0, cfg.Portfolio.NormFactor)
	assert.Empty(t, cfg.Portfolio.GitHubToken)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "2s")
	t.Setenv("PASSING_THRESHOLD", "65.5")
	t.Setenv("FAILURE_POLICY", "zero")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 65.5, cfg.Scoring.PassingThreshold)
	assert.Equal(t, "zero", cfg.Scoring.FailurePolicy)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "three")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "zero max requests", mutate: func(c *Config) { c.RateLimit.MaxRequests = 0 }, errMsg: "RATE_LIMIT_MAX_REQUESTS"},
		{name: "negative window", mutate: func(c *Config) { c.RateLimit.Window = -time.Second }, errMsg: "RATE_LIMIT_WINDOW"},
		{name: "zero attempts", mutate: func(c *Config) { c.Retry.Attempts = 0 }, errMsg: "RETRY_MAX_ATTEMPTS"},
		{name: "max below base", mutate: func(c *Config) { c.Retry.MaxDelay = time.Second }, errMsg: "retry delays"},
		{name: "unknown policy", mutate: func(c *Config) { c.Scoring.FailurePolicy = "ignore" }, errMsg: "FAILURE_POLICY"},
		{name: "threshold above 100", mutate: func(c *Config) { c.Scoring.PassingThreshold = 101 }, errMsg: "PASSING_THRESHOLD"},
		{name: "zero portfolio repos", mutate: func(c *Config) { c.Portfolio.MaxRepos = 0 }, errMsg: "PORTFOLIO_MAX_REPOS"},
		{name: "negative norm factor", mutate: func(c *Config) { c.Portfolio.NormFactor = -1 }, errMsg: "PORTFOLIO_NORM_FACTOR"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "bard" }, errMsg: "LLM_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "scores"}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=scores sslmode=disable", cfg.GetDatabaseDSN())
}
