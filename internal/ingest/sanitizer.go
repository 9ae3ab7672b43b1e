package ingest

import (
	"html"
	"strings"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from feed text. The feed nominally delivers
// plain text but outlets routinely leak HTML fragments into
// descriptions and truncated bodies.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean returns the record with title, description and content reduced
// to plain text. Idempotent.
func (s *Sanitizer) Clean(raw domain.RawArticle) domain.RawArticle {
	raw.Title = s.text(raw.Title)
	raw.Description = s.text(raw.Description)
	raw.Content = s.text(raw.Content)
	return raw
}

func (s *Sanitizer) text(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
