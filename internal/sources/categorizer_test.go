package sources

import (
	"testing"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizer_Categorize(t *testing.T) {
	c, err := NewCategorizer()
	require.NoError(t, err)

	tests := []struct {
		name       string
		outletID   string
		outletName string
		want       domain.SourceCategory
	}{
		{"exact id", "reuters", "", domain.SourceCategoryNeutral},
		{"exact name", "", "Al Jazeera English", domain.SourceCategoryPublic},
		{"case and punctuation folded", "", "BBC News", domain.SourceCategoryPublic},
		{"dotted domain key", "", "bbc.co.uk", domain.SourceCategoryPublic},
		{"political outlet", "politico", "Politico", domain.SourceCategoryPolitical},
		{"substring containment", "", "The Guardian Weekly Edition", domain.SourceCategoryPublic},
		{"gov heuristic", "", "Kerala Government Portal", domain.SourceCategoryPolitical},
		{"press heuristic", "", "United Press Office", domain.SourceCategoryPolitical},
		{"unknown defaults to neutral", "", "Random Blog Daily", domain.SourceCategoryNeutral},
		{"empty input defaults to neutral", "", "", domain.SourceCategoryNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.outletID, tt.outletName))
		})
	}
}

func TestCategorizer_IDWinsOverName(t *testing.T) {
	c, err := NewCategorizer()
	require.NoError(t, err)

	// An exact id hit is checked before the name.
	got := c.Categorize("reuters", "Some Political Press")
	assert.Equal(t, domain.SourceCategoryNeutral, got)
}
