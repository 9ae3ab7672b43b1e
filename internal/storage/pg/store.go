// Package pg implements the storage contract on Postgres via pgx.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
	"github.com/AhmadRaza24h/Veritas/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.conn}
}

var _ storage.Store = (*Store)(nil)

const articleColumns = `
	a.id, a.source_id, a.title, a.summary, a.content, a.url, a.image_url,
	a.location, a.incident_type, a.published_at, a.group_id, a.created_at,
	s.id, s.name, s.category, s.created_at`

func (s *Store) UpsertSource(ctx context.Context, name string, category domain.SourceCategory) (domain.Source, error) {
	cmd := `
		INSERT INTO sources (id, name, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category
		RETURNING id, name, category, created_at;
	`
	var src domain.Source
	err := s.db.QueryRow(ctx, cmd, uuid.New(), name, category).
		Scan(&src.ID, &src.Name, &src.Category, &src.CreatedAt)
	if err != nil {
		return domain.Source{}, fmt.Errorf("failed to upsert source %q: %w", name, err)
	}
	return src, nil
}

func (s *Store) ArticleByURL(ctx context.Context, url string) (domain.Article, error) {
	cmd := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN sources s ON s.id = a.source_id
		WHERE a.url = $1;
	`
	return s.queryArticle(ctx, cmd, url)
}

func (s *Store) ArticleByID(ctx context.Context, id uuid.UUID) (domain.Article, error) {
	cmd := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN sources s ON s.id = a.source_id
		WHERE a.id = $1;
	`
	return s.queryArticle(ctx, cmd, id)
}

func (s *Store) InsertArticle(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	cmd := `
		INSERT INTO articles (id, source_id, title, summary, content, url, image_url,
		                      location, incident_type, published_at, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`
	var id uuid.UUID
	err := s.db.QueryRow(
		ctx,
		cmd,
		article.ID,
		article.SourceID,
		article.Title,
		article.Summary,
		article.Content,
		article.URL,
		article.ImageURL,
		article.Location,
		article.IncidentType,
		article.PublishedAt,
		article.GroupID,
		article.CreatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
	}
	return id, nil
}

func (s *Store) ArticlesSince(ctx context.Context, cutoff time.Time) ([]domain.Article, error) {
	cmd := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN sources s ON s.id = a.source_id
		WHERE a.published_at >= $1
		ORDER BY a.published_at ASC, a.id ASC;
	`
	return s.queryArticles(ctx, cmd, cutoff)
}

func (s *Store) GroupArticles(ctx context.Context, groupID uuid.UUID) ([]domain.Article, error) {
	cmd := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN sources s ON s.id = a.source_id
		WHERE a.group_id = $1
		ORDER BY a.published_at ASC, a.id ASC;
	`
	return s.queryArticles(ctx, cmd, groupID)
}

func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE published_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge articles: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) FindIncident(ctx context.Context, incidentType, location string, windowStart, windowEnd time.Time) (domain.Incident, error) {
	cmd := `
		SELECT id, incident_type, location, first_reported, last_reported
		FROM incidents
		WHERE incident_type = $1
		  AND location = $2
		  AND first_reported >= $3
		  AND last_reported <= $4
		ORDER BY first_reported ASC
		LIMIT 1;
	`
	var inc domain.Incident
	err := s.db.QueryRow(ctx, cmd, incidentType, location, windowStart, windowEnd).
		Scan(&inc.ID, &inc.IncidentType, &inc.Location, &inc.FirstReported, &inc.LastReported)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Incident{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Incident{}, fmt.Errorf("failed to find incident: %w", err)
	}
	return inc, nil
}

func (s *Store) CreateIncident(ctx context.Context, incident domain.Incident) (uuid.UUID, error) {
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	cmd := `
		INSERT INTO incidents (id, incident_type, location, first_reported, last_reported)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	var id uuid.UUID
	err := s.db.QueryRow(ctx, cmd,
		incident.ID, incident.IncidentType, incident.Location,
		incident.FirstReported, incident.LastReported,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create incident: %w", err)
	}
	return id, nil
}

func (s *Store) ExtendIncident(ctx context.Context, id uuid.UUID, firstReported, lastReported time.Time) error {
	cmd := `
		UPDATE incidents
		SET first_reported = LEAST(first_reported, $2),
		    last_reported  = GREATEST(last_reported, $3)
		WHERE id = $1;
	`
	tag, err := s.db.Exec(ctx, cmd, id, firstReported, lastReported)
	if err != nil {
		return fmt.Errorf("failed to extend incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) LinkArticle(ctx context.Context, incidentID, articleID uuid.UUID) error {
	cmd := `
		INSERT INTO incident_news (incident_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
	`
	if _, err := s.db.Exec(ctx, cmd, incidentID, articleID); err != nil {
		return fmt.Errorf("failed to link article to incident: %w", err)
	}
	return nil
}

func (s *Store) IncidentByID(ctx context.Context, id uuid.UUID) (domain.Incident, error) {
	cmd := `
		SELECT id, incident_type, location, first_reported, last_reported
		FROM incidents
		WHERE id = $1;
	`
	var inc domain.Incident
	err := s.db.QueryRow(ctx, cmd, id).
		Scan(&inc.ID, &inc.IncidentType, &inc.Location, &inc.FirstReported, &inc.LastReported)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Incident{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Incident{}, fmt.Errorf("failed to get incident: %w", err)
	}
	return inc, nil
}

func (s *Store) ListIncidents(ctx context.Context, req pagination.OffsetRequest) (*pagination.OffsetResult[domain.Incident], error) {
	_ = req.Validate()

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM incidents;`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count incidents: %w", err)
	}

	cmd := `
		SELECT id, incident_type, location, first_reported, last_reported
		FROM incidents
		ORDER BY last_reported DESC, id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := s.db.Query(ctx, cmd, req.Size, (req.Page-1)*req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Incident, 0, req.Size)
	for rows.Next() {
		var inc domain.Incident
		if err := rows.Scan(&inc.ID, &inc.IncidentType, &inc.Location, &inc.FirstReported, &inc.LastReported); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		items = append(items, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read incidents: %w", err)
	}

	return pagination.NewOffsetResult(items, total, req.Page, req.Size), nil
}

func (s *Store) IncidentArticles(ctx context.Context, incidentID uuid.UUID) ([]domain.Article, error) {
	cmd := `
		SELECT ` + articleColumns + `
		FROM incident_news link
		JOIN articles a ON a.id = link.article_id
		LEFT JOIN sources s ON s.id = a.source_id
		WHERE link.incident_id = $1
		ORDER BY a.published_at ASC, a.id ASC;
	`
	return s.queryArticles(ctx, cmd, incidentID)
}

func (s *Store) SaveAnalysis(ctx context.Context, analysis domain.Analysis) error {
	cmd := `
		INSERT INTO analysis_cache (incident_id, credibility_score, public_pct, neutral_pct, political_pct, summary, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (incident_id) DO UPDATE SET
			credibility_score = EXCLUDED.credibility_score,
			public_pct        = EXCLUDED.public_pct,
			neutral_pct       = EXCLUDED.neutral_pct,
			political_pct     = EXCLUDED.political_pct,
			summary           = EXCLUDED.summary,
			generated_at      = EXCLUDED.generated_at;
	`
	_, err := s.db.Exec(ctx, cmd,
		analysis.IncidentID, analysis.CredibilityScore,
		analysis.PublicPct, analysis.NeutralPct, analysis.PoliticalPct,
		analysis.Summary, analysis.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (s *Store) AnalysisByIncident(ctx context.Context, incidentID uuid.UUID) (domain.Analysis, error) {
	cmd := `
		SELECT incident_id, credibility_score, public_pct, neutral_pct, political_pct, summary, generated_at
		FROM analysis_cache
		WHERE incident_id = $1;
	`
	var a domain.Analysis
	err := s.db.QueryRow(ctx, cmd, incidentID).Scan(
		&a.IncidentID, &a.CredibilityScore,
		&a.PublicPct, &a.NeutralPct, &a.PoliticalPct,
		&a.Summary, &a.GeneratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Analysis{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

func (s *Store) queryArticle(ctx context.Context, cmd string, arg any) (domain.Article, error) {
	a, err := scanArticle(s.db.QueryRow(ctx, cmd, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Article{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

func (s *Store) queryArticles(ctx context.Context, cmd string, arg any) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, cmd, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return out, nil
}

func scanArticle(row pgx.Row) (domain.Article, error) {
	var (
		a          domain.Article
		srcID      *uuid.UUID
		srcName    *string
		srcCat     *domain.SourceCategory
		srcCreated *time.Time
	)
	err := row.Scan(
		&a.ID, &a.SourceID, &a.Title, &a.Summary, &a.Content, &a.URL, &a.ImageURL,
		&a.Location, &a.IncidentType, &a.PublishedAt, &a.GroupID, &a.CreatedAt,
		&srcID, &srcName, &srcCat, &srcCreated,
	)
	if err != nil {
		return domain.Article{}, err
	}
	if srcID != nil {
		a.Source = &domain.Source{
			ID:        *srcID,
			Name:      *srcName,
			Category:  *srcCat,
			CreatedAt: *srcCreated,
		}
	}
	return a, nil
}
