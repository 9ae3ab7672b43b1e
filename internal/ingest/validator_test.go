package ingest

import (
	"testing"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAccept(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawArticle
		want bool
	}{
		{
			name: "valid article",
			raw:  domain.RawArticle{Title: "Flooding displaces thousands", Description: "Rivers burst their banks overnight"},
			want: true,
		},
		{
			name: "empty title",
			raw:  domain.RawArticle{Description: "Some description"},
			want: false,
		},
		{
			name: "title below ten characters",
			raw:  domain.RawArticle{Title: "Too short", Description: "Some description"},
			want: false,
		},
		{
			name: "whitespace-padded short title",
			raw:  domain.RawArticle{Title: "   Short   ", Description: "Some description"},
			want: false,
		},
		{
			name: "empty description",
			raw:  domain.RawArticle{Title: "A perfectly fine headline"},
			want: false,
		},
		{
			name: "removed marker in title",
			raw:  domain.RawArticle{Title: "[Removed] something", Description: "Some description"},
			want: false,
		},
		{
			name: "deleted marker in description",
			raw:  domain.RawArticle{Title: "A perfectly fine headline", Description: "[deleted]"},
			want: false,
		},
		{
			name: "paywall marker in body",
			raw: domain.RawArticle{
				Title:       "A perfectly fine headline",
				Description: "Some description",
				Content:     "Subscribe to read the full story",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Accept(tt.raw))
		})
	}
}
