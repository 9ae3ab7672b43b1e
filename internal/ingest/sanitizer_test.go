package ingest

import (
	"testing"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSanitizer_Clean(t *testing.T) {
	s := NewSanitizer()

	raw := domain.RawArticle{
		Title:       `Storm warning <script>alert("x")</script> issued`,
		Description: "<p>Coastal areas <b>evacuated</b> overnight</p>",
		Content:     "Officials said &quot;stay indoors&quot;",
	}

	got := s.Clean(raw)

	assert.Equal(t, "Storm warning  issued", got.Title)
	assert.Equal(t, "Coastal areas evacuated overnight", got.Description)
	assert.Equal(t, `Officials said "stay indoors"`, got.Content)
}

func TestSanitizer_CleanIdempotent(t *testing.T) {
	s := NewSanitizer()

	raw := domain.RawArticle{
		Title:       "<h1>Big headline</h1>",
		Description: "plain text stays plain",
	}

	once := s.Clean(raw)
	twice := s.Clean(once)
	assert.Equal(t, once, twice)
}
