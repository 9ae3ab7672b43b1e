// Package storage defines the persistence contract the ingestion
// pipeline and the read API depend on, with a Postgres implementation
// under pg and an in-memory one under inmem for tests.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/pkg/pagination"
	"github.com/google/uuid"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("storage: not found")

// Store is the full persistence surface. Implementations must make
// LinkArticle idempotent and ExtendIncident monotonic (reporting
// windows only ever grow).
type Store interface {
	ArticleStore
	IncidentStore
	AnalysisStore
}

type ArticleStore interface {
	// UpsertSource creates the outlet on first sighting or updates its
	// category on a later one (last write wins).
	UpsertSource(ctx context.Context, name string, category domain.SourceCategory) (domain.Source, error)

	// ArticleByURL returns ErrNotFound when the URL is new.
	ArticleByURL(ctx context.Context, url string) (domain.Article, error)

	ArticleByID(ctx context.Context, id uuid.UUID) (domain.Article, error)

	// InsertArticle persists one article. A duplicate URL surfaces as an
	// error for the caller to count, not to abort the batch on.
	InsertArticle(ctx context.Context, article domain.Article) (uuid.UUID, error)

	// ArticlesSince returns articles published at or after cutoff,
	// oldest first, for seeding the grouper's working set.
	ArticlesSince(ctx context.Context, cutoff time.Time) ([]domain.Article, error)

	// GroupArticles returns every member of one story with Source
	// populated.
	GroupArticles(ctx context.Context, groupID uuid.UUID) ([]domain.Article, error)

	// PurgeOlderThan deletes articles published before cutoff and
	// returns how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type IncidentStore interface {
	// FindIncident looks for an incident of the same type and location
	// whose whole reporting span sits inside [windowStart, windowEnd].
	FindIncident(ctx context.Context, incidentType, location string, windowStart, windowEnd time.Time) (domain.Incident, error)

	CreateIncident(ctx context.Context, incident domain.Incident) (uuid.UUID, error)

	// ExtendIncident widens the reporting window to the union of the
	// stored span and [firstReported, lastReported].
	ExtendIncident(ctx context.Context, id uuid.UUID, firstReported, lastReported time.Time) error

	// LinkArticle attaches an article to an incident; re-linking an
	// existing pair is a no-op.
	LinkArticle(ctx context.Context, incidentID, articleID uuid.UUID) error

	IncidentByID(ctx context.Context, id uuid.UUID) (domain.Incident, error)

	ListIncidents(ctx context.Context, req pagination.OffsetRequest) (*pagination.OffsetResult[domain.Incident], error)

	// IncidentArticles returns the articles linked to an incident with
	// Source populated.
	IncidentArticles(ctx context.Context, incidentID uuid.UUID) ([]domain.Article, error)
}

type AnalysisStore interface {
	// SaveAnalysis upserts the cached analysis for an incident.
	SaveAnalysis(ctx context.Context, analysis domain.Analysis) error

	// AnalysisByIncident returns ErrNotFound when nothing is cached.
	AnalysisByIncident(ctx context.Context, incidentID uuid.UUID) (domain.Analysis, error)
}
