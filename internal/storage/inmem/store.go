// Package inmem is a map-backed Store used by tests and local runs
// without a database.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/AhmadRaza24h/Veritas/pkg/pagination"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	sources       map[uuid.UUID]domain.Source
	sourcesByName map[string]uuid.UUID

	articles      map[uuid.UUID]domain.Article
	articlesByURL map[string]uuid.UUID

	incidents map[uuid.UUID]domain.Incident
	links     map[uuid.UUID]map[uuid.UUID]struct{}

	analyses map[uuid.UUID]domain.Analysis
}

func NewStore() *Store {
	return &Store{
		sources:       make(map[uuid.UUID]domain.Source),
		sourcesByName: make(map[string]uuid.UUID),
		articles:      make(map[uuid.UUID]domain.Article),
		articlesByURL: make(map[string]uuid.UUID),
		incidents:     make(map[uuid.UUID]domain.Incident),
		links:         make(map[uuid.UUID]map[uuid.UUID]struct{}),
		analyses:      make(map[uuid.UUID]domain.Analysis),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) UpsertSource(_ context.Context, name string, category domain.SourceCategory) (domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.sourcesByName[name]; ok {
		src := s.sources[id]
		src.Category = category
		s.sources[id] = src
		return src, nil
	}

	src := domain.Source{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		CreatedAt: time.Now(),
	}
	s.sources[src.ID] = src
	s.sourcesByName[name] = src.ID
	return src, nil
}

func (s *Store) ArticleByURL(_ context.Context, url string) (domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.articlesByURL[url]
	if !ok {
		return domain.Article{}, storage.ErrNotFound
	}
	return s.withSource(s.articles[id]), nil
}

func (s *Store) ArticleByID(_ context.Context, id uuid.UUID) (domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return domain.Article{}, storage.ErrNotFound
	}
	return s.withSource(a), nil
}

func (s *Store) InsertArticle(_ context.Context, article domain.Article) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.articlesByURL[article.URL]; dup {
		return uuid.Nil, fmt.Errorf("insert article: duplicate url %q", article.URL)
	}
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	article.Source = nil
	s.articles[article.ID] = article
	s.articlesByURL[article.URL] = article.ID
	return article.ID, nil
}

func (s *Store) ArticlesSince(_ context.Context, cutoff time.Time) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Article
	for _, a := range s.articles {
		if !a.PublishedAt.Before(cutoff) {
			out = append(out, s.withSource(a))
		}
	}
	sortArticles(out)
	return out, nil
}

func (s *Store) GroupArticles(_ context.Context, groupID uuid.UUID) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Article
	for _, a := range s.articles {
		if a.GroupID == groupID {
			out = append(out, s.withSource(a))
		}
	}
	sortArticles(out)
	return out, nil
}

func (s *Store) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, a := range s.articles {
		if a.PublishedAt.Before(cutoff) {
			delete(s.articles, id)
			delete(s.articlesByURL, a.URL)
			for _, members := range s.links {
				delete(members, id)
			}
			purged++
		}
	}
	return purged, nil
}

func (s *Store) FindIncident(_ context.Context, incidentType, location string, windowStart, windowEnd time.Time) (domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  domain.Incident
		found bool
	)
	for _, inc := range s.incidents {
		if inc.IncidentType != incidentType || inc.Location != location {
			continue
		}
		if inc.FirstReported.Before(windowStart) || inc.LastReported.After(windowEnd) {
			continue
		}
		// Earliest first_reported wins, matching the SQL ordering.
		if !found || inc.FirstReported.Before(best.FirstReported) ||
			(inc.FirstReported.Equal(best.FirstReported) && inc.ID.String() < best.ID.String()) {
			best = inc
			found = true
		}
	}
	if found {
		return best, nil
	}
	return domain.Incident{}, storage.ErrNotFound
}

func (s *Store) CreateIncident(_ context.Context, incident domain.Incident) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	s.incidents[incident.ID] = incident
	return incident.ID, nil
}

func (s *Store) ExtendIncident(_ context.Context, id uuid.UUID, firstReported, lastReported time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, ok := s.incidents[id]
	if !ok {
		return storage.ErrNotFound
	}
	if firstReported.Before(inc.FirstReported) {
		inc.FirstReported = firstReported
	}
	if lastReported.After(inc.LastReported) {
		inc.LastReported = lastReported
	}
	s.incidents[id] = inc
	return nil
}

func (s *Store) LinkArticle(_ context.Context, incidentID, articleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incidents[incidentID]; !ok {
		return storage.ErrNotFound
	}
	members, ok := s.links[incidentID]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		s.links[incidentID] = members
	}
	members[articleID] = struct{}{}
	return nil
}

func (s *Store) IncidentByID(_ context.Context, id uuid.UUID) (domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inc, ok := s.incidents[id]
	if !ok {
		return domain.Incident{}, storage.ErrNotFound
	}
	return inc, nil
}

func (s *Store) ListIncidents(_ context.Context, req pagination.OffsetRequest) (*pagination.OffsetResult[domain.Incident], error) {
	_ = req.Validate()

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		all = append(all, inc)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].LastReported.Equal(all[j].LastReported) {
			return all[i].LastReported.After(all[j].LastReported)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	offset := (req.Page - 1) * req.Size
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + req.Size
	if end > len(all) {
		end = len(all)
	}
	return pagination.NewOffsetResult(all[offset:end], int64(len(all)), req.Page, req.Size), nil
}

func (s *Store) IncidentArticles(_ context.Context, incidentID uuid.UUID) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Article
	for id := range s.links[incidentID] {
		if a, ok := s.articles[id]; ok {
			out = append(out, s.withSource(a))
		}
	}
	sortArticles(out)
	return out, nil
}

func (s *Store) SaveAnalysis(_ context.Context, analysis domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[analysis.IncidentID] = analysis
	return nil
}

func (s *Store) AnalysisByIncident(_ context.Context, incidentID uuid.UUID) (domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[incidentID]
	if !ok {
		return domain.Analysis{}, storage.ErrNotFound
	}
	return a, nil
}

// withSource attaches a copy of the article's source; callers outside
// the lock must not see map-backed pointers.
func (s *Store) withSource(a domain.Article) domain.Article {
	if src, ok := s.sources[a.SourceID]; ok {
		cp := src
		a.Source = &cp
	}
	return a
}

func sortArticles(articles []domain.Article) {
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].PublishedAt.Equal(articles[j].PublishedAt) {
			return articles[i].PublishedAt.Before(articles[j].PublishedAt)
		}
		return articles[i].ID.String() < articles[j].ID.String()
	})
}
