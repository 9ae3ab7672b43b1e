// Package main serves the read API: incidents, cached analysis, and
// per-article credibility/perspective scoring.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/AhmadRaza24h/Veritas/internal/analysis"
	"github.com/AhmadRaza24h/Veritas/internal/config"
	"github.com/AhmadRaza24h/Veritas/internal/router"
	"github.com/AhmadRaza24h/Veritas/internal/server"
	"github.com/AhmadRaza24h/Veritas/internal/storage/pg"
	pkgserver "github.com/AhmadRaza24h/Veritas/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load("cmd/api/.env")
	if err != nil {
		slog.Error("Failed to load app config", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireDatabase(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := pg.RunMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := pg.NewStore(pool)
	service := analysis.NewService(store)

	e := echo.New()
	s := server.NewServer(e, sCfg)

	router.NewAnalysisRouter(e, store, service, pkgserver.NewPingHealthChecker(pool)).Bind()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
