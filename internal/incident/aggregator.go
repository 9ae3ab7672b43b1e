// Package incident rolls persisted articles up into longer-lived
// incidents: recurring coverage of one situation at one place, spanning
// possibly many stories over days or weeks.
package incident

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/internal/storage"
)

// MergeWindow is how far an existing incident's reporting span may sit
// from a new batch's span and still be treated as the same situation.
const MergeWindow = 7 * 24 * time.Hour

// Stats summarizes one aggregation pass.
type Stats struct {
	Created  int `json:"created"`
	Extended int `json:"extended"`
	Linked   int `json:"linked"`
	Errored  int `json:"errored"`
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("created", s.Created),
		slog.Int("extended", s.Extended),
		slog.Int("linked", s.Linked),
		slog.Int("errored", s.Errored),
	)
}

type Aggregator struct {
	store  storage.IncidentStore
	logger *slog.Logger
}

func NewAggregator(store storage.IncidentStore, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger}
}

type cohortKey struct {
	incidentType string
	location     string
}

// Aggregate merges a batch of persisted articles into incidents. It
// groups by exact (incident type, location), finds an incident whose
// whole span already sits inside the batch span widened by the merge
// window, extends it, and links the articles; otherwise it creates a
// new incident. Re-running over already-linked articles is a no-op:
// links are idempotent and windows only ever extend.
func (g *Aggregator) Aggregate(ctx context.Context, articles []domain.Article) (Stats, error) {
	cohorts := make(map[cohortKey][]domain.Article)
	for _, a := range articles {
		key := cohortKey{incidentType: a.IncidentType, location: a.Location}
		cohorts[key] = append(cohorts[key], a)
	}

	keys := make([]cohortKey, 0, len(cohorts))
	for key := range cohorts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].incidentType != keys[j].incidentType {
			return keys[i].incidentType < keys[j].incidentType
		}
		return keys[i].location < keys[j].location
	})

	var stats Stats
	for _, key := range keys {
		if err := g.mergeCohort(ctx, key, cohorts[key], &stats); err != nil {
			stats.Errored++
			g.logger.Error("failed to merge cohort",
				"incident_type", key.incidentType, "location", key.location, "error", err)
		}
	}
	return stats, nil
}

func (g *Aggregator) mergeCohort(ctx context.Context, key cohortKey, cohort []domain.Article, stats *Stats) error {
	minDate, maxDate, ok := dateSpan(cohort)
	if !ok {
		return nil
	}

	inc, err := g.store.FindIncident(ctx, key.incidentType, key.location,
		minDate.Add(-MergeWindow), maxDate.Add(MergeWindow))
	switch {
	case err == nil:
		if err := g.store.ExtendIncident(ctx, inc.ID, minDate, maxDate); err != nil {
			return fmt.Errorf("extend incident: %w", err)
		}
		stats.Extended++
	case errors.Is(err, storage.ErrNotFound):
		id, err := g.store.CreateIncident(ctx, domain.Incident{
			IncidentType:  key.incidentType,
			Location:      key.location,
			FirstReported: minDate,
			LastReported:  maxDate,
		})
		if err != nil {
			return fmt.Errorf("create incident: %w", err)
		}
		inc.ID = id
		stats.Created++
	default:
		return fmt.Errorf("find incident: %w", err)
	}

	for _, a := range cohort {
		if err := g.store.LinkArticle(ctx, inc.ID, a.ID); err != nil {
			return fmt.Errorf("link article %s: %w", a.ID, err)
		}
		stats.Linked++
	}
	return nil
}

func dateSpan(cohort []domain.Article) (minDate, maxDate time.Time, ok bool) {
	for _, a := range cohort {
		if a.PublishedAt.IsZero() {
			continue
		}
		if !ok || a.PublishedAt.Before(minDate) {
			minDate = a.PublishedAt
		}
		if !ok || a.PublishedAt.After(maxDate) {
			maxDate = a.PublishedAt
		}
		ok = true
	}
	return minDate, maxDate, ok
}
