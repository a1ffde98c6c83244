// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	GenAI    GenAIConfig
	OMDb     OMDbConfig
	Supabase SupabaseConfig
	Database DatabaseConfig

	EnrichConcurrency int
	HTTPTimeout       time.Duration
	CORSOrigins       []string
}

type GenAIConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	// RateLimit is the number of generation requests allowed per second.
	RateLimit int
}

type OMDbConfig struct {
	APIKey  string
	BaseURL string
}

type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

// Load reads the configuration. Missing optional values fall back to defaults;
// an unknown provider or driver is an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
		GenAI: GenAIConfig{
			Provider:     strings.ToLower(getEnv("GENAI_PROVIDER", ProviderGemini)),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimit:    getEnvInt("GENAI_RATE_LIMIT", 5),
		},
		OMDb: OMDbConfig{
			APIKey:  os.Getenv("OMDB_API_KEY"),
			BaseURL: getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(getEnv("SUPABASE_URL", os.Getenv("VITE_SUPABASE_URL")), "/"),
			AnonKey:   getEnv("SUPABASE_ANON_KEY", os.Getenv("VITE_SUPABASE_ANON_KEY")),
			JWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
			URL:    getEnv("DATABASE_URL", "moodmovies.db"),
		},
		EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 4),
		HTTPTimeout:       getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
	}

	switch cfg.GenAI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unknown GENAI_PROVIDER %q", cfg.GenAI.Provider)
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.Database.Driver)
	}

	if cfg.EnrichConcurrency < 1 {
		cfg.EnrichConcurrency = 1
	}
	if cfg.GenAI.RateLimit < 1 {
		cfg.GenAI.RateLimit = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
