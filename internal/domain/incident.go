package domain

import (
	"time"

	"github.com/google/uuid"
)

// Incident is a longer-lived aggregate of same-(type, location) coverage
// spanning possibly many stories over days or weeks.
type Incident struct {
	ID            uuid.UUID `json:"id"`
	IncidentType  string    `json:"incidentType"`
	Location      string    `json:"location"`
	FirstReported time.Time `json:"firstReported"`
	LastReported  time.Time `json:"lastReported"`
}

// Analysis is a cached scoring result for one incident. It is derived
// from current membership and regenerated on demand, never a source of
// truth on its own.
type Analysis struct {
	IncidentID       uuid.UUID `json:"incidentId"`
	CredibilityScore int       `json:"credibilityScore"`
	PublicPct        int       `json:"publicPct"`
	NeutralPct       int       `json:"neutralPct"`
	PoliticalPct     int       `json:"politicalPct"`
	Summary          string    `json:"summary"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
