package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ENVIRONMENT", "development")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 2, cfg.ChatInsightCap)
	assert.Equal(t, 8, cfg.DocumentInsightCap)
	assert.Equal(t, 7*24*time.Hour, cfg.SynthesisMaxAge)
	assert.Equal(t, 5, cfg.SynthesisMinNewInsights)
	assert.Zero(t, cfg.LLMMaxRetries)
	assert.False(t, cfg.LLMBreakerEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_ExtractionFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EXTRACTION_TEMPERATURE", "0.1")
	t.Setenv("EXTRACTION_MAX_TOKENS", "900")
	t.Setenv("EXTRACTION_MIN_INSIGHT_LENGTH", "20")
	t.Setenv("EXTRACTION_NOVELTY_THRESHOLD", "0.6")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.ExtractionTemperature)
	assert.Equal(t, 900, cfg.ExtractionMaxTokens)
	assert.Equal(t, 20, cfg.ExtractionMinInsightLength)
	assert.Equal(t, 10, cfg.ExtractionMinGoalLength)
	assert.Equal(t, 0.6, cfg.ExtractionNoveltyThreshold)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "sol.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chat_insight_cap: 3
synthesis_max_age: 48h
llm_breaker_enabled: true
allowed_origins:
  - https://app.example.com
log_level: debug
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ChatInsightCap)
	assert.Equal(t, 48*time.Hour, cfg.SynthesisMaxAge)
	assert.True(t, cfg.LLMBreakerEnabled)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_EnvHelpers(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CHAT_TEMPERATURE", "0.2")
	t.Setenv("SYNTHESIS_MAX_AGE", "not-a-duration")
	t.Setenv("DOCUMENT_INSIGHT_CAP", "12")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.ChatTemperature, 1e-9)
	assert.Equal(t, 7*24*time.Hour, cfg.SynthesisMaxAge)
	assert.Equal(t, 12, cfg.DocumentInsightCap)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "memory with openai",
			mutate: func(c *Config) { c.StoreBackend = StoreMemory; c.OpenAIAPIKey = "k" },
		},
		{
			name:    "supabase without credentials",
			mutate:  func(c *Config) { c.OpenAIAPIKey = "k" },
			wantErr: true,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StoreBackend = "mongo"; c.OpenAIAPIKey = "k" },
			wantErr: true,
		},
		{
			name:    "anthropic without key",
			mutate:  func(c *Config) { c.StoreBackend = StoreMemory; c.LLMProvider = ProviderAnthropic },
			wantErr: true,
		},
		{
			name: "auth without secret",
			mutate: func(c *Config) {
				c.StoreBackend = StoreMemory
				c.OpenAIAPIKey = "k"
				c.AuthEnabled = true
			},
			wantErr: true,
		},
		{
			name: "memory store in production",
			mutate: func(c *Config) {
				c.StoreBackend = StoreMemory
				c.OpenAIAPIKey = "k"
				c.Environment = "production"
			},
			wantErr: true,
		},
		{
			name: "zero chat cap",
			mutate: func(c *Config) {
				c.StoreBackend = StoreMemory
				c.OpenAIAPIKey = "k"
				c.ChatInsightCap = 0
			},
			wantErr: true,
		},
		{
			name: "negative document cap",
			mutate: func(c *Config) {
				c.StoreBackend = StoreMemory
				c.OpenAIAPIKey = "k"
				c.DocumentInsightCap = -1
			},
			wantErr: true,
		},
		{
			name: "novelty threshold above one",
			mutate: func(c *Config) {
				c.StoreBackend = StoreMemory
				c.OpenAIAPIKey = "k"
				c.ExtractionNoveltyThreshold = 1.5
			},
			wantErr: true,
		},
		{
			name: "dynamodb",
			mutate: func(c *Config) {
				c.StoreBackend = StoreDynamoDB
				c.OpenAIAPIKey = "k"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
