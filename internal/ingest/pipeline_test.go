package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/classify"
	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/location"
	"github.com/AhmadRaza24h/Veritas/internal/sources"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/AhmadRaza24h/Veritas/internal/storage/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors keyed by the embedded text.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return s.lookup(text)
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := s.lookup(text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) lookup(text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no stub vector for %q", text)
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("embedder down")
}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedder down")
}

func newTestPipeline(t *testing.T, store storage.ArticleStore, embedder *stubEmbedder, opts ...PipelineOption) *Pipeline {
	t.Helper()

	gazetteer, err := location.LoadGazetteer()
	require.NoError(t, err)
	taxonomy, err := classify.LoadTaxonomy()
	require.NoError(t, err)
	categorizer, err := sources.NewCategorizer()
	require.NoError(t, err)

	return NewPipeline(
		store,
		embedder,
		location.NewResolver(gazetteer),
		classify.NewClassifier(taxonomy),
		categorizer,
		opts...,
	)
}

func rawArticle(title, desc, url, outlet string, publishedAt time.Time) domain.RawArticle {
	return domain.RawArticle{
		Title:       title,
		Description: desc,
		URL:         url,
		PublishedAt: publishedAt.Format(time.RFC3339),
		Source:      domain.RawSource{Name: outlet},
	}
}

func TestPipeline_Run_GroupsSimilarArticles(t *testing.T) {
	store := inmem.NewStore()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Flood rescue continues in Surat Thousands evacuated after rainfall": {1, 0, 0},
		"Surat flood rescue update Evacuations continue as rivers rise":      {0.98, 0.2, 0},
		"Stock market closes higher Investors cheer earnings":                {0, 0, 1},
	}}

	p := newTestPipeline(t, store, embedder, WithClock(func() time.Time { return now }))

	batch := []domain.RawArticle{
		rawArticle("Flood rescue continues in Surat", "Thousands evacuated after rainfall", "https://a.example/1", "Reuters", now),
		rawArticle("Surat flood rescue update", "Evacuations continue as rivers rise", "https://b.example/2", "BBC News", now.Add(time.Hour)),
		rawArticle("Stock market closes higher", "Investors cheer earnings", "https://c.example/3", "Bloomberg", now),
	}

	report, ids, err := p.Run(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 2, report.NewStories)
	assert.Equal(t, 1, report.MergedArticles)

	first, err := store.ArticleByURL(context.Background(), "https://a.example/1")
	require.NoError(t, err)
	second, err := store.ArticleByURL(context.Background(), "https://b.example/2")
	require.NoError(t, err)
	third, err := store.ArticleByURL(context.Background(), "https://c.example/3")
	require.NoError(t, err)

	assert.Equal(t, first.ID, first.GroupID, "first article roots its story")
	assert.Equal(t, first.ID, second.GroupID, "similar article joins the story")
	assert.Equal(t, third.ID, third.GroupID, "dissimilar article starts its own")

	assert.Equal(t, "Gujarat, India", first.Location)
	assert.NotEmpty(t, first.IncidentType)
}

func TestPipeline_Run_CountsRejectedAndDuplicates(t *testing.T) {
	store := inmem.NewStore()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Wildfire threatens hillside homes Residents told to leave": {1, 0},
	}}

	p := newTestPipeline(t, store, embedder, WithClock(func() time.Time { return now }))

	valid := rawArticle("Wildfire threatens hillside homes", "Residents told to leave", "https://a.example/1", "AP", now)
	short := rawArticle("Too short", "Has a description", "https://a.example/2", "AP", now)
	noDesc := rawArticle("A headline without any description", "", "https://a.example/3", "AP", now)

	report, ids, err := p.Run(context.Background(), []domain.RawArticle{valid, short, noDesc})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Equal(t, 2, report.Rejected)
	assert.Equal(t, 1, report.Inserted)

	// Re-running the same batch only yields a duplicate.
	report, ids, err = p.Run(context.Background(), []domain.RawArticle{valid})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 1, report.Duplicates)
	assert.Zero(t, report.Inserted)
}

func TestPipeline_Run_SeedsWorkingSetFromTrailingWindow(t *testing.T) {
	store := inmem.NewStore()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	src, err := store.UpsertSource(ctx, "Reuters", domain.SourceCategoryNeutral)
	require.NoError(t, err)

	rootID := uuid.New()
	_, err = store.InsertArticle(ctx, domain.Article{
		ID:           rootID,
		SourceID:     src.ID,
		Title:        "Cyclone makes landfall on the coast",
		Summary:      "Heavy winds reported",
		URL:          "https://old.example/1",
		Location:     "Global",
		IncidentType: domain.IncidentTypeGeneral,
		PublishedAt:  now.Add(-48 * time.Hour),
		GroupID:      rootID,
	})
	require.NoError(t, err)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Cyclone makes landfall on the coast Heavy winds reported":   {1, 0},
		"Cyclone aftermath assessed today Crews survey storm damage": {0.97, 0.1},
	}}

	p := newTestPipeline(t, store, embedder, WithClock(func() time.Time { return now }))

	batch := []domain.RawArticle{
		rawArticle("Cyclone aftermath assessed today", "Crews survey storm damage", "https://new.example/1", "BBC News", now),
	}

	report, ids, err := p.Run(ctx, batch)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, 1, report.MergedArticles)

	stored, err := store.ArticleByURL(ctx, "https://new.example/1")
	require.NoError(t, err)
	assert.Equal(t, rootID, stored.GroupID, "new article joins the persisted story")
}

// insertFailingStore rejects the insert for one URL to simulate a
// per-article write failure mid-batch.
type insertFailingStore struct {
	*inmem.Store
	failURL string
}

func (s *insertFailingStore) InsertArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if article.URL == s.failURL {
		return uuid.Nil, fmt.Errorf("write rejected")
	}
	return s.Store.InsertArticle(ctx, article)
}

func TestPipeline_Run_StoreFailureCountsErroredAndContinues(t *testing.T) {
	store := &insertFailingStore{Store: inmem.NewStore(), failURL: "https://b.example/2"}
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Flood rescue continues in Surat Thousands evacuated after rainfall": {1, 0, 0},
		"Stock market closes higher Investors cheer earnings":                {0, 0, 1},
		"Parliament passes budget bill Opposition stages walkout":            {0, 1, 0},
	}}

	p := newTestPipeline(t, store, embedder, WithClock(func() time.Time { return now }))

	batch := []domain.RawArticle{
		rawArticle("Flood rescue continues in Surat", "Thousands evacuated after rainfall", "https://a.example/1", "Reuters", now),
		rawArticle("Stock market closes higher", "Investors cheer earnings", "https://b.example/2", "Bloomberg", now),
		rawArticle("Parliament passes budget bill", "Opposition stages walkout", "https://c.example/3", "BBC News", now),
	}

	report, ids, err := p.Run(context.Background(), batch)
	require.NoError(t, err, "one bad write does not abort the batch")
	assert.Len(t, ids, 2)
	assert.Equal(t, 1, report.Errored)
	assert.Equal(t, 2, report.Inserted)

	_, err = store.ArticleByURL(context.Background(), "https://a.example/1")
	assert.NoError(t, err)
	_, err = store.ArticleByURL(context.Background(), "https://c.example/3")
	assert.NoError(t, err)
	_, err = store.ArticleByURL(context.Background(), "https://b.example/2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPipeline_Run_EmbedderFailureAbortsBatch(t *testing.T) {
	store := inmem.NewStore()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	gazetteer, err := location.LoadGazetteer()
	require.NoError(t, err)
	taxonomy, err := classify.LoadTaxonomy()
	require.NoError(t, err)
	categorizer, err := sources.NewCategorizer()
	require.NoError(t, err)

	p := NewPipeline(store, failingEmbedder{}, location.NewResolver(gazetteer), classify.NewClassifier(taxonomy), categorizer,
		WithClock(func() time.Time { return now }))

	batch := []domain.RawArticle{
		rawArticle("Wildfire threatens hillside homes", "Residents told to leave", "https://a.example/1", "AP", now),
	}

	_, _, err = p.Run(context.Background(), batch)
	assert.Error(t, err)
}

func TestPipeline_Run_DefaultsUnparseablePublishedDate(t *testing.T) {
	store := inmem.NewStore()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Wildfire threatens hillside homes Residents told to leave": {1, 0},
	}}

	p := newTestPipeline(t, store, embedder, WithClock(func() time.Time { return now }))

	raw := rawArticle("Wildfire threatens hillside homes", "Residents told to leave", "https://a.example/1", "AP", now)
	raw.PublishedAt = "not-a-timestamp"

	_, ids, err := p.Run(context.Background(), []domain.RawArticle{raw})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	stored, err := store.ArticleByURL(context.Background(), "https://a.example/1")
	require.NoError(t, err)
	assert.True(t, stored.PublishedAt.Equal(now), "falls back to the ingestion time")
}
