package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "GENAI_PROVIDER", "GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "GENAI_RATE_LIMIT", "OMDB_API_KEY", "OMDB_BASE_URL",
		"SUPABASE_URL", "VITE_SUPABASE_URL", "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY",
		"SUPABASE_JWT_SECRET", "DATABASE_DRIVER", "DATABASE_URL", "ENRICH_CONCURRENCY",
		"HTTP_TIMEOUT", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ProviderGemini, cfg.GenAI.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.GenAI.GeminiModel)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 4, cfg.EnrichConcurrency)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadLegacyAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-gemini")
	t.Setenv("VITE_SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("VITE_SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-gemini", cfg.GenAI.GeminiAPIKey)
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "anon", cfg.Supabase.AnonKey)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENAI_PROVIDER", "OpenAI")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENRICH_CONCURRENCY", "0")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.GenAI.Provider)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 1, cfg.EnrichConcurrency)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENAI_PROVIDER", "claude")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}
