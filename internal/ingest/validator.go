// Package ingest runs the batch correlation pipeline: validate and
// sanitize raw feed records, resolve location and incident type,
// categorize the outlet, assign each article to a story, and persist
// the result.
package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
)

const minTitleLength = 10

// boilerplateMarkers flag feed records whose text is a placeholder or a
// paywall stub rather than reporting.
var boilerplateMarkers = []string{
	"[removed]",
	"[deleted]",
	"subscribe to",
}

// Accept is the quality gate on raw feed records. It rejects short or
// missing titles, empty descriptions, and boilerplate text; it has no
// side effects and never errors.
func Accept(raw domain.RawArticle) bool {
	if utf8.RuneCountInString(strings.TrimSpace(raw.Title)) < minTitleLength {
		return false
	}
	if strings.TrimSpace(raw.Description) == "" {
		return false
	}

	haystack := strings.ToLower(raw.Title + " " + raw.Description + " " + raw.Content)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(haystack, marker) {
			return false
		}
	}
	return true
}
