// Package scoring holds the read-side analysis functions: article
// credibility against its story's peer coverage, and perspective
// distribution across the story's outlets. Both are pure over a
// snapshot of the story's articles; callers must not score a story while
// its membership is still being written.
package scoring

import (
	"math"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/google/uuid"
)

// sourceWeight is the reliability tier per outlet category. Unknown or
// missing categories score as public.
var sourceWeight = map[domain.SourceCategory]float64{
	domain.SourceCategoryNeutral:   1.0,
	domain.SourceCategoryPublic:    0.8,
	domain.SourceCategoryPolitical: 0.6,
}

const defaultSourceWeight = 0.8

// convergenceWindow is how close another outlet's report must be to
// count as near-simultaneous coverage.
const convergenceWindow = 6 * time.Hour

// Credibility is the structural credibility of one article, broken into
// its three components. Total is the rounded, clamped sum.
type Credibility struct {
	Total           int     `json:"total"`
	CrossSource     float64 `json:"cross_source"`
	Reliability     float64 `json:"reliability"`
	TimeConvergence float64 `json:"time_convergence"`
}

// CredibilityScore scores article against the full membership of its
// story. groupArticles must include the article itself. An empty group
// yields a zero score.
//
// Cross-source confirmation (max 50) rewards distinct outlets in the
// story; reliability (max 30) weighs the scored article's own outlet
// category; time convergence (max 20) rewards peers published within
// six hours of the article. Reliability is per-article, so two members
// of one story can score differently.
func CredibilityScore(article domain.Article, groupArticles []domain.Article) Credibility {
	if len(groupArticles) == 0 {
		return Credibility{}
	}

	unique := make(map[uuid.UUID]struct{})
	for _, a := range groupArticles {
		if a.SourceID != uuid.Nil {
			unique[a.SourceID] = struct{}{}
		}
	}
	crossSource := math.Min(float64(len(unique))/3.0, 1.0) * 50

	weight := defaultSourceWeight
	if article.Source != nil {
		if w, ok := sourceWeight[article.Source.Category]; ok {
			weight = w
		}
	}
	reliability := weight * 30

	var closeReports int
	for _, other := range groupArticles {
		if other.ID == article.ID {
			continue
		}
		if other.PublishedAt.IsZero() || article.PublishedAt.IsZero() {
			continue
		}
		diff := other.PublishedAt.Sub(article.PublishedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= convergenceWindow {
			closeReports++
		}
	}
	convergence := math.Min(float64(closeReports)/5.0, 1.0) * 20

	total := int(math.Round(crossSource + reliability + convergence))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return Credibility{
		Total:           total,
		CrossSource:     crossSource,
		Reliability:     reliability,
		TimeConvergence: convergence,
	}
}
