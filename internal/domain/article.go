package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationGlobal is the resolver sentinel for articles with no recognizable place.
const LocationGlobal = "Global"

// IncidentTypeGeneral is the classifier fallback label.
const IncidentTypeGeneral = "General"

// RawSource identifies the outlet as reported by the feed.
type RawSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawArticle is a single record as delivered by the feed collaborator.
// It is transient input; nothing here is persisted as-is.
type RawArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
	Source      RawSource `json:"source"`
}

// PublishedTime parses the feed's publishedAt timestamp. Missing or
// unparseable values fall back to the given ingestion time.
func (r RawArticle) PublishedTime(fallback time.Time) time.Time {
	if r.PublishedAt == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, r.PublishedAt)
	if err != nil {
		return fallback
	}
	return t
}

// Article is a persisted, classified news article.
type Article struct {
	ID           uuid.UUID `json:"id"`
	SourceID     uuid.UUID `json:"sourceId"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Content      string    `json:"content,omitempty"`
	URL          string    `json:"url"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Location     string    `json:"location"`
	IncidentType string    `json:"incidentType"`
	PublishedAt  time.Time `json:"publishedAt"`

	// GroupID is the id of the story this article belongs to. A story is
	// the set of articles sharing one GroupID; the article whose own ID
	// equals its GroupID is the story root.
	GroupID uuid.UUID `json:"groupId"`

	CreatedAt time.Time `json:"createdAt"`

	// Source is populated on reads that join the sources table.
	Source *Source `json:"source,omitempty"`
}

// IsGroupRoot reports whether this article started its story.
func (a Article) IsGroupRoot() bool {
	return a.GroupID == a.ID
}
