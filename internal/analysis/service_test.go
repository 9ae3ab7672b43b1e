package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/AhmadRaza24h/Veritas/internal/storage/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *inmem.Store
	incidentID uuid.UUID
	articleIDs []uuid.UUID
}

// seedIncident stores one incident with a three-outlet story linked to it.
func seedIncident(t *testing.T, now time.Time) fixture {
	t.Helper()
	ctx := context.Background()
	store := inmem.NewStore()

	incidentID, err := store.CreateIncident(ctx, domain.Incident{
		IncidentType:  "Environment",
		Location:      "Gujarat, India",
		FirstReported: now.Add(-24 * time.Hour),
		LastReported:  now,
	})
	require.NoError(t, err)

	groupID := uuid.New()
	categories := []domain.SourceCategory{
		domain.SourceCategoryNeutral,
		domain.SourceCategoryPublic,
		domain.SourceCategoryPolitical,
	}
	outlets := []string{"Reuters", "BBC News", "Politico"}

	var articleIDs []uuid.UUID
	for i, cat := range categories {
		src, err := store.UpsertSource(ctx, outlets[i], cat)
		require.NoError(t, err)

		id := uuid.New()
		if i == 0 {
			groupID = id
		}
		_, err = store.InsertArticle(ctx, domain.Article{
			ID:           id,
			SourceID:     src.ID,
			Title:        "Flood coverage headline",
			URL:          "https://example.com/" + id.String(),
			Location:     "Gujarat, India",
			IncidentType: "Environment",
			PublishedAt:  now.Add(time.Duration(i) * time.Hour),
			GroupID:      groupID,
		})
		require.NoError(t, err)
		require.NoError(t, store.LinkArticle(ctx, incidentID, id))
		articleIDs = append(articleIDs, id)
	}

	return fixture{store: store, incidentID: incidentID, articleIDs: articleIDs}
}

func TestService_IncidentAnalysis_GeneratesAndCaches(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fx := seedIncident(t, now)
	svc := NewService(fx.store, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	got, err := svc.IncidentAnalysis(ctx, fx.incidentID, false)
	require.NoError(t, err)

	assert.Equal(t, fx.incidentID, got.IncidentID)
	assert.Greater(t, got.CredibilityScore, 0)
	assert.LessOrEqual(t, got.CredibilityScore, 100)
	assert.Equal(t, 33, got.PublicPct)
	assert.Equal(t, 33, got.NeutralPct)
	assert.Equal(t, 33, got.PoliticalPct)
	assert.Equal(t, "Coverage includes multiple perspectives (3 unique sources)", got.Summary)
	assert.True(t, got.GeneratedAt.Equal(now))

	cached, err := fx.store.AnalysisByIncident(ctx, fx.incidentID)
	require.NoError(t, err)
	assert.Equal(t, got, cached)
}

func TestService_IncidentAnalysis_ServesFromCache(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fx := seedIncident(t, now)
	ctx := context.Background()

	stale := domain.Analysis{
		IncidentID:       fx.incidentID,
		CredibilityScore: 7,
		Summary:          "stale entry",
		GeneratedAt:      now.Add(-time.Hour),
	}
	require.NoError(t, fx.store.SaveAnalysis(ctx, stale))

	svc := NewService(fx.store, WithClock(func() time.Time { return now }))

	got, err := svc.IncidentAnalysis(ctx, fx.incidentID, false)
	require.NoError(t, err)
	assert.Equal(t, stale, got, "without refresh the cache wins")

	refreshed, err := svc.IncidentAnalysis(ctx, fx.incidentID, true)
	require.NoError(t, err)
	assert.NotEqual(t, stale.Summary, refreshed.Summary)
	assert.True(t, refreshed.GeneratedAt.Equal(now))
}

func TestService_IncidentAnalysis_UnknownIncident(t *testing.T) {
	svc := NewService(inmem.NewStore())

	_, err := svc.IncidentAnalysis(context.Background(), uuid.New(), false)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestService_ArticleCredibility(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fx := seedIncident(t, now)
	svc := NewService(fx.store)

	got, err := svc.ArticleCredibility(context.Background(), fx.articleIDs[0])
	require.NoError(t, err)

	// Three unique sources max out the cross-source term; the first
	// article's outlet is neutral.
	assert.InDelta(t, 50.0, got.CrossSource, 0.01)
	assert.InDelta(t, 30.0, got.Reliability, 0.01)
	assert.Greater(t, got.Total, 0)
}

func TestService_ArticlePerspective(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fx := seedIncident(t, now)
	svc := NewService(fx.store)

	got, err := svc.ArticlePerspective(context.Background(), fx.articleIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalSources)
	assert.Equal(t, "Coverage includes multiple perspectives (3 unique sources)", got.Summary)
}

func TestService_ArticleCredibility_UnknownArticle(t *testing.T) {
	svc := NewService(inmem.NewStore())
	_, err := svc.ArticleCredibility(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
