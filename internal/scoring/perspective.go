package scoring

import (
	"fmt"
	"math"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/google/uuid"
)

// Perspective describes how a story's coverage is distributed across
// outlet categories, counting unique sources rather than articles.
// Percentages are rounded independently and may not sum to exactly 100.
type Perspective struct {
	Public       int    `json:"public"`
	Neutral      int    `json:"neutral"`
	Political    int    `json:"political"`
	PublicPct    int    `json:"public_pct"`
	NeutralPct   int    `json:"neutral_pct"`
	PoliticalPct int    `json:"political_pct"`
	Summary      string `json:"summary"`
	TotalSources int    `json:"total_sources"`
}

// PerspectiveDistribution computes the unique-source category split for
// one story. Articles without a categorized source are skipped; when
// nothing remains the result is zeroed with an explanatory summary.
func PerspectiveDistribution(groupArticles []domain.Article) Perspective {
	if len(groupArticles) == 0 {
		return Perspective{Summary: "No perspective data available"}
	}

	// First sighting of a source id fixes its category.
	seen := make(map[uuid.UUID]domain.SourceCategory)
	for _, a := range groupArticles {
		if a.Source == nil || !a.Source.Category.Valid() {
			continue
		}
		if _, ok := seen[a.SourceID]; !ok {
			seen[a.SourceID] = a.Source.Category
		}
	}

	var p Perspective
	for _, cat := range seen {
		switch cat {
		case domain.SourceCategoryPublic:
			p.Public++
		case domain.SourceCategoryNeutral:
			p.Neutral++
		case domain.SourceCategoryPolitical:
			p.Political++
		}
	}

	total := p.Public + p.Neutral + p.Political
	if total == 0 {
		p.Summary = "No categorized sources"
		return p
	}

	pct := func(n int) int {
		return int(math.Round(float64(n) / float64(total) * 100))
	}
	p.PublicPct = pct(p.Public)
	p.NeutralPct = pct(p.Neutral)
	p.PoliticalPct = pct(p.Political)
	p.TotalSources = total

	dominantName := "public"
	dominantCount := p.Public
	for _, c := range []struct {
		name  string
		count int
	}{{"neutral", p.Neutral}, {"political", p.Political}} {
		if c.count > dominantCount {
			dominantName = c.name
			dominantCount = c.count
		}
	}

	var summary string
	switch {
	case dominantCount == total:
		summary = fmt.Sprintf("Coverage is entirely %s", dominantName)
	case float64(dominantCount) >= float64(total)*0.6:
		summary = fmt.Sprintf("Coverage is primarily %s", dominantName)
	case p.Public > 0 && p.Neutral > 0 && p.Political > 0:
		summary = "Coverage includes multiple perspectives"
	default:
		summary = "Coverage shows mixed perspectives"
	}

	plural := "s"
	if total == 1 {
		plural = ""
	}
	p.Summary = fmt.Sprintf("%s (%d unique source%s)", summary, total, plural)
	return p
}
