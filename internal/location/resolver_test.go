package location

import (
	"strings"
	"testing"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	g, err := LoadGazetteer()
	require.NoError(t, err)
	return NewResolver(g)
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name  string
		title string
		desc  string
		want  string
	}{
		{
			name:  "city variant resolves to subdivision and country",
			title: "Flooding hits Surat, Gujarat",
			want:  "Gujarat, India",
		},
		{
			name:  "subdivision wins over bare country in same text",
			title: "Heavy rain across India as Mumbai floods",
			want:  "Maharashtra, India",
		},
		{
			name:  "country only",
			title: "Election results announced in Nigeria",
			want:  "Nigeria",
		},
		{
			name:  "demonym variant",
			title: "French officials respond to strike",
			want:  "France",
		},
		{
			name: "description is scanned too",
			desc: "Protests continue in Berlin this week",
			want: "Berlin, Germany",
		},
		{
			name:  "no match falls back to Global",
			title: "Scientists publish new study on sleep",
			want:  domain.LocationGlobal,
		},
		{
			name:  "word boundary prevents substring hit",
			title: "A busload of tourists arrived safely",
			want:  domain.LocationGlobal,
		},
		{
			name:  "case insensitive",
			title: "flooding hits SURAT today",
			want:  "Gujarat, India",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(domain.RawArticle{Title: tt.title, Description: tt.desc})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_DeterministicOrder(t *testing.T) {
	r := newTestResolver(t)

	// Ambiguous text naming two subdivisions resolves to whichever
	// country is declared first, every time.
	raw := domain.RawArticle{Title: "Summit links London and Tokyo leaders"}
	first := r.Resolve(raw)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve(raw))
	}
}

func TestResolver_NeverEmpty(t *testing.T) {
	r := newTestResolver(t)

	for _, title := range []string{"", "xyzzy", "report", "breaking news update"} {
		got := r.Resolve(domain.RawArticle{Title: title})
		assert.NotEmpty(t, got)
		if got != domain.LocationGlobal {
			// Must be "Sub, Country" or a bare country name.
			assert.True(t, len(strings.TrimSpace(got)) > 0)
		}
	}
}
