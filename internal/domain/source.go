package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceCategory is the editorial perspective bucket of an outlet.
type SourceCategory string

const (
	SourceCategoryPublic    SourceCategory = "public"
	SourceCategoryNeutral   SourceCategory = "neutral"
	SourceCategoryPolitical SourceCategory = "political"
)

// Valid reports whether the category is one of the three known buckets.
func (c SourceCategory) Valid() bool {
	switch c {
	case SourceCategoryPublic, SourceCategoryNeutral, SourceCategoryPolitical:
		return true
	}
	return false
}

// Source is a news outlet. Created on first sighting; the category may
// be corrected on a later sighting of the same outlet name.
type Source struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Category  SourceCategory `json:"category"`
	CreatedAt time.Time      `json:"createdAt"`
}
