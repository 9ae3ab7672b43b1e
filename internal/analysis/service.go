// Package analysis is the read-side service: it scores stories and
// incidents on demand and caches incident-level results.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/scoring"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/google/uuid"
)

type Service struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IncidentAnalysis returns the cached analysis for an incident,
// generating and caching it when nothing is cached yet or when refresh
// is set. The result is derived from current membership; the cache is
// a convenience, not a source of truth.
func (s *Service) IncidentAnalysis(ctx context.Context, incidentID uuid.UUID, refresh bool) (domain.Analysis, error) {
	if !refresh {
		cached, err := s.store.AnalysisByIncident(ctx, incidentID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return domain.Analysis{}, fmt.Errorf("load cached analysis: %w", err)
		}
	}

	if _, err := s.store.IncidentByID(ctx, incidentID); err != nil {
		return domain.Analysis{}, err
	}

	articles, err := s.store.IncidentArticles(ctx, incidentID)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("load incident articles: %w", err)
	}

	score, err := s.meanCredibility(ctx, articles)
	if err != nil {
		return domain.Analysis{}, err
	}
	perspective := scoring.PerspectiveDistribution(articles)

	result := domain.Analysis{
		IncidentID:       incidentID,
		CredibilityScore: score,
		PublicPct:        perspective.PublicPct,
		NeutralPct:       perspective.NeutralPct,
		PoliticalPct:     perspective.PoliticalPct,
		Summary:          perspective.Summary,
		GeneratedAt:      s.now(),
	}
	if err := s.store.SaveAnalysis(ctx, result); err != nil {
		// The caller still gets a usable result; only the cache write failed.
		s.logger.Error("failed to cache analysis", "incident_id", incidentID, "error", err)
	}
	return result, nil
}

// ArticleCredibility scores one article against its full story.
func (s *Service) ArticleCredibility(ctx context.Context, articleID uuid.UUID) (scoring.Credibility, error) {
	article, err := s.store.ArticleByID(ctx, articleID)
	if err != nil {
		return scoring.Credibility{}, err
	}
	group, err := s.store.GroupArticles(ctx, article.GroupID)
	if err != nil {
		return scoring.Credibility{}, fmt.Errorf("load story members: %w", err)
	}
	return scoring.CredibilityScore(article, group), nil
}

// ArticlePerspective reports the source-category split of the story the
// article belongs to.
func (s *Service) ArticlePerspective(ctx context.Context, articleID uuid.UUID) (scoring.Perspective, error) {
	article, err := s.store.ArticleByID(ctx, articleID)
	if err != nil {
		return scoring.Perspective{}, err
	}
	group, err := s.store.GroupArticles(ctx, article.GroupID)
	if err != nil {
		return scoring.Perspective{}, fmt.Errorf("load story members: %w", err)
	}
	return scoring.PerspectiveDistribution(group), nil
}

// meanCredibility averages the per-article scores across the incident,
// each article scored against its own story's membership.
func (s *Service) meanCredibility(ctx context.Context, articles []domain.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	groups := make(map[uuid.UUID][]domain.Article)
	var sum int
	for _, a := range articles {
		group, ok := groups[a.GroupID]
		if !ok {
			var err error
			group, err = s.store.GroupArticles(ctx, a.GroupID)
			if err != nil {
				return 0, fmt.Errorf("load story members: %w", err)
			}
			groups[a.GroupID] = group
		}
		sum += scoring.CredibilityScore(a, group).Total
	}
	return int(math.Round(float64(sum) / float64(len(articles)))), nil
}
