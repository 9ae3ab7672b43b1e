package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/classify"
	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/embedding"
	"github.com/AhmadRaza24h/Veritas/internal/grouping"
	"github.com/AhmadRaza24h/Veritas/internal/location"
	"github.com/AhmadRaza24h/Veritas/internal/sources"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/google/uuid"
)

const maxTitleLength = 500

// Pipeline correlates one fetched batch. Articles are processed in a
// fixed sequence: the working set mutates between articles, and the
// next article's similarity scan must see it.
type Pipeline struct {
	store       storage.ArticleStore
	embedder    embedding.Embedder
	resolver    *location.Resolver
	classifier  *classify.Classifier
	categorizer *sources.Categorizer
	sanitizer   *Sanitizer

	threshold float64
	window    time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

type PipelineOption func(*Pipeline)

// WithSimilarityThreshold overrides the story-match cutoff.
func WithSimilarityThreshold(threshold float64) PipelineOption {
	return func(p *Pipeline) { p.threshold = threshold }
}

// WithWindow overrides how far back the working set is seeded.
func WithWindow(window time.Duration) PipelineOption {
	return func(p *Pipeline) { p.window = window }
}

func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// WithClock fixes the pipeline's notion of "now"; used by tests and by
// backfills replaying old batches.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(
	store storage.ArticleStore,
	embedder embedding.Embedder,
	resolver *location.Resolver,
	classifier *classify.Classifier,
	categorizer *sources.Categorizer,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		store:       store,
		embedder:    embedder,
		resolver:    resolver,
		classifier:  classifier,
		categorizer: categorizer,
		sanitizer:   NewSanitizer(),
		threshold:   grouping.DefaultSimilarityThreshold,
		window:      grouping.DefaultWindow,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one fetched batch and returns the ids of the persisted
// articles, oldest-processed first. A per-article failure is logged and
// counted; only an embedder failure aborts the whole batch.
func (p *Pipeline) Run(ctx context.Context, batch []domain.RawArticle) (BatchReport, []uuid.UUID, error) {
	report := BatchReport{Fetched: len(batch)}
	now := p.now()

	var candidates []domain.RawArticle
	for _, raw := range batch {
		raw = p.sanitizer.Clean(raw)
		raw.URL = strings.TrimSpace(raw.URL)
		if raw.URL == "" || !Accept(raw) {
			report.Rejected++
			continue
		}
		candidates = append(candidates, raw)
	}

	workingSet := grouping.NewWorkingSet(p.threshold)
	if err := p.seedWorkingSet(ctx, workingSet, now); err != nil {
		return report, nil, err
	}

	vectors, err := p.embedBatch(ctx, candidates)
	if err != nil {
		return report, nil, err
	}

	var savedIDs []uuid.UUID
	for i, raw := range candidates {
		id, merged, err := p.processArticle(ctx, raw, vectors[i], workingSet, now)
		if err != nil {
			if errors.Is(err, errDuplicateURL) {
				report.Duplicates++
				continue
			}
			report.Errored++
			p.logger.Error("failed to process article", "url", raw.URL, "error", err)
			continue
		}
		if merged {
			report.MergedArticles++
		} else {
			report.NewStories++
		}
		report.Inserted++
		savedIDs = append(savedIDs, id)
	}

	return report, savedIDs, nil
}

var errDuplicateURL = errors.New("duplicate url")

func (p *Pipeline) processArticle(
	ctx context.Context,
	raw domain.RawArticle,
	vector []float32,
	workingSet *grouping.WorkingSet,
	now time.Time,
) (uuid.UUID, bool, error) {
	if _, err := p.store.ArticleByURL(ctx, raw.URL); err == nil {
		return uuid.Nil, false, errDuplicateURL
	} else if !errors.Is(err, storage.ErrNotFound) {
		return uuid.Nil, false, fmt.Errorf("check duplicate url: %w", err)
	}

	loc := p.resolver.Resolve(raw)
	incidentType := p.classifier.Classify(raw)

	sourceName := raw.Source.Name
	if sourceName == "" {
		sourceName = "Unknown"
	}
	category := p.categorizer.Categorize(raw.Source.ID, raw.Source.Name)
	src, err := p.store.UpsertSource(ctx, sourceName, category)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("upsert source: %w", err)
	}

	id := uuid.New()
	groupID, sim, matched := workingSet.Match(vector)
	if !matched {
		groupID = id
	}

	article := domain.Article{
		ID:           id,
		SourceID:     src.ID,
		Title:        truncate(raw.Title, maxTitleLength),
		Summary:      raw.Description,
		Content:      raw.Content,
		URL:          raw.URL,
		ImageURL:     raw.ImageURL,
		Location:     loc,
		IncidentType: incidentType,
		PublishedAt:  raw.PublishedTime(now),
		GroupID:      groupID,
	}

	if _, err := p.store.InsertArticle(ctx, article); err != nil {
		return uuid.Nil, false, fmt.Errorf("insert article: %w", err)
	}

	// Only persisted articles join the working set.
	workingSet.Add(id, groupID, vector)

	if matched {
		p.logger.Debug("merged into story",
			"article_id", id, "group_id", groupID, "similarity", sim,
			"incident_type", incidentType, "location", loc)
	} else {
		p.logger.Debug("new story",
			"article_id", id, "incident_type", incidentType, "location", loc)
	}
	return id, matched, nil
}

// seedWorkingSet loads the trailing window and embeds it in one bulk
// call.
func (p *Pipeline) seedWorkingSet(ctx context.Context, workingSet *grouping.WorkingSet, now time.Time) error {
	recent, err := p.store.ArticlesSince(ctx, now.Add(-p.window))
	if err != nil {
		return fmt.Errorf("load trailing window: %w", err)
	}
	if len(recent) == 0 {
		return nil
	}

	texts := make([]string, len(recent))
	for i, a := range recent {
		texts[i] = embedText(a.Title, a.Summary)
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed trailing window: %w", err)
	}
	return workingSet.Seed(recent, vectors)
}

func (p *Pipeline) embedBatch(ctx context.Context, candidates []domain.RawArticle) ([][]float32, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	texts := make([]string, len(candidates))
	for i, raw := range candidates {
		texts[i] = embedText(raw.Title, raw.Description)
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(candidates) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d articles", len(vectors), len(candidates))
	}
	return vectors, nil
}

func embedText(title, summary string) string {
	return strings.TrimSpace(title + " " + summary)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
