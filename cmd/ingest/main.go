// Package main runs one ingestion batch: fetch the feed, correlate and
// persist the articles, roll them up into incidents, and optionally
// purge old rows.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/classify"
	"github.com/AhmadRaza24h/Veritas/internal/config"
	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/embedding"
	"github.com/AhmadRaza24h/Veritas/internal/incident"
	"github.com/AhmadRaza24h/Veritas/internal/ingest"
	"github.com/AhmadRaza24h/Veritas/internal/location"
	"github.com/AhmadRaza24h/Veritas/internal/newsapi"
	"github.com/AhmadRaza24h/Veritas/internal/sources"
	"github.com/AhmadRaza24h/Veritas/internal/storage/pg"
)

func main() {
	days := flag.Int("days", newsapi.DefaultDays, "how many days back to fetch")
	pages := flag.Int("pages", newsapi.DefaultMaxPages, "maximum feed pages to fetch")
	pageSize := flag.Int("page-size", newsapi.DefaultPageSize, "articles per feed page")
	query := flag.String("query", newsapi.DefaultQuery, "feed search query")
	purgeDays := flag.Int("purge-days", 0, "purge articles older than this many days, 0 disables")
	flag.Parse()

	slog.SetLogLoggerLevel(slog.LevelDebug)

	cfg, err := config.Load("cmd/ingest/.env")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireDatabase(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireNewsAPI(); err != nil {
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

	feed, err := newsapi.NewClient(cfg.NewsAPIBaseURL, cfg.NewsAPIKey)
	if err != nil {
		slog.Error("Failed to create feed client", "error", err)
		os.Exit(1)
	}

	embedder, err := embedding.NewOllamaClient(cfg.OllamaURL, cfg.EmbeddingModel)
	if err != nil {
		slog.Error("Failed to create embedding client", "error", err)
		os.Exit(1)
	}

	pipeline, err := newPipeline(store, embedder, cfg)
	if err != nil {
		slog.Error("Failed to create pipeline", "error", err)
		os.Exit(1)
	}

	batch, err := feed.FetchEverything(ctx, newsapi.FetchParams{
		Query:    *query,
		Days:     *days,
		PageSize: *pageSize,
		MaxPages: *pages,
	})
	if err != nil {
		slog.Error("Failed to fetch feed", "error", err)
		os.Exit(1)
	}
	slog.Info("Fetched feed batch", "articles", len(batch))

	report, savedIDs, err := pipeline.Run(ctx, batch)
	if err != nil {
		slog.Error("Failed to run pipeline", "error", err)
		os.Exit(1)
	}
	slog.Info("Batch processed", "report", report)

	saved := make([]domain.Article, 0, len(savedIDs))
	for _, id := range savedIDs {
		a, err := store.ArticleByID(ctx, id)
		if err != nil {
			slog.Error("Failed to reload saved article", "article_id", id, "error", err)
			continue
		}
		saved = append(saved, a)
	}

	aggregator := incident.NewAggregator(store, slog.Default())
	stats, err := aggregator.Aggregate(ctx, saved)
	if err != nil {
		slog.Error("Failed to aggregate incidents", "error", err)
		os.Exit(1)
	}
	slog.Info("Incidents aggregated", "stats", stats)

	if *purgeDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -*purgeDays)
		purged, err := store.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			slog.Error("Failed to purge old articles", "error", err)
			os.Exit(1)
		}
		slog.Info("Purged old articles", "purged", purged, "cutoff", cutoff)
	}
}

func newPipeline(store *pg.Store, embedder embedding.Embedder, cfg *config.Config) (*ingest.Pipeline, error) {
	gazetteer, err := location.LoadGazetteer()
	if err != nil {
		return nil, err
	}
	taxonomy, err := classify.LoadTaxonomy()
	if err != nil {
		return nil, err
	}
	categorizer, err := sources.NewCategorizer()
	if err != nil {
		return nil, err
	}

	return ingest.NewPipeline(
		store,
		embedder,
		location.NewResolver(gazetteer),
		classify.NewClassifier(taxonomy),
		categorizer,
		ingest.WithSimilarityThreshold(cfg.SimilarityThreshold),
		ingest.WithWindow(time.Duration(cfg.WindowDays)*24*time.Hour),
	), nil
}
