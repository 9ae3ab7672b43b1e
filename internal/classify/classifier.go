package classify

import (
	"sort"
	"strings"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/AhmadRaza24h/Veritas/pkg/textutil"
)

const (
	// DefaultMinScore is the minimum keyword score the winning category
	// needs; below it the article is "General".
	DefaultMinScore = 2

	// DefaultMargin is the near-tie band. If the top two scores differ
	// by this much or less the result is ambiguous and falls back to
	// "General". Empirically chosen in the rule table's lineage; kept
	// configurable rather than second-guessed.
	DefaultMargin = 1
)

// Classifier scores article text against the taxonomy. Stateless after
// construction, safe for concurrent use.
type Classifier struct {
	overrides  []loweredOverride
	categories []loweredCategory
	minScore   int
	margin     int
}

type loweredOverride struct {
	category string
	phrases  []string
}

type loweredCategory struct {
	name     string
	keywords []string
}

type ClassifierOption func(*Classifier)

func WithMinScore(n int) ClassifierOption {
	return func(c *Classifier) { c.minScore = n }
}

func WithMargin(n int) ClassifierOption {
	return func(c *Classifier) { c.margin = n }
}

func NewClassifier(tx *Taxonomy, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		minScore: DefaultMinScore,
		margin:   DefaultMargin,
	}
	for _, o := range tx.Overrides {
		c.overrides = append(c.overrides, loweredOverride{
			category: o.Category,
			phrases:  lowerAll(o.Phrases),
		})
	}
	for _, cat := range tx.Categories {
		c.categories = append(c.categories, loweredCategory{
			name:     cat.Name,
			keywords: lowerAll(cat.Keywords),
		})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns a taxonomy label or "General". Overrides are checked
// against title+description; keyword scoring also includes the body.
func (c *Classifier) Classify(raw domain.RawArticle) string {
	headline := strings.ToLower(raw.Title + " " + raw.Description)

	for _, o := range c.overrides {
		for _, phrase := range o.phrases {
			if textutil.ContainsWord(headline, phrase) {
				return o.category
			}
		}
	}

	text := headline
	if raw.Content != "" {
		text = headline + " " + strings.ToLower(raw.Content)
	}

	type scored struct {
		name  string
		score int
	}
	scores := make([]scored, 0, len(c.categories))
	for _, cat := range c.categories {
		n := 0
		for _, kw := range cat.keywords {
			if textutil.ContainsWord(text, kw) {
				n++
			}
		}
		if n > 0 {
			scores = append(scores, scored{name: cat.name, score: n})
		}
	}

	if len(scores) == 0 {
		return domain.IncidentTypeGeneral
	}

	// Stable sort keeps declaration order among equal scores.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	top := scores[0]
	if top.score < c.minScore {
		return domain.IncidentTypeGeneral
	}
	if len(scores) > 1 && top.score-scores[1].score <= c.margin {
		return domain.IncidentTypeGeneral
	}

	return top.name
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
