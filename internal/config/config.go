// Package config loads the application's environment configuration,
// shared by the ingestion and API binaries.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/AhmadRaza24h/Veritas/internal/grouping"
	"github.com/AhmadRaza24h/Veritas/pkg/config/env"
)

type Config struct {
	DatabaseURL string

	NewsAPIKey     string
	NewsAPIBaseURL string

	OllamaURL      string
	EmbeddingModel string

	SimilarityThreshold float64
	WindowDays          int
}

// Load reads the environment, optionally seeded from a .env file.
func Load(envPath string) (*Config, error) {
	if err := env.LoadDotEnv(envPath); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		NewsAPIKey:          os.Getenv("NEWSAPI_KEY"),
		NewsAPIBaseURL:      getEnv("NEWSAPI_BASE_URL", "https://newsapi.org"),
		OllamaURL:           getEnv("OLLAMA_URL", "http://localhost:11434"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		SimilarityThreshold: grouping.DefaultSimilarityThreshold,
		WindowDays:          5,
	}

	if v := os.Getenv("SIMILARITY_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold <= 0 || threshold > 1 {
			return nil, errors.New("SIMILARITY_THRESHOLD must be a number in (0, 1]")
		}
		cfg.SimilarityThreshold = threshold
	}

	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			return nil, errors.New("WINDOW_DAYS must be a positive integer")
		}
		cfg.WindowDays = days
	}

	return cfg, nil
}

// RequireDatabase errors unless a database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

// RequireNewsAPI errors unless a feed API key is configured.
func (c *Config) RequireNewsAPI() error {
	if c.NewsAPIKey == "" {
		return errors.New("NEWSAPI_KEY is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
