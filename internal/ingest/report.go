package ingest

import "log/slog"

// BatchReport accounts for every record that entered one pipeline run.
// Fetched = Rejected + Duplicates + Errored + Inserted.
type BatchReport struct {
	Fetched    int `json:"fetched"`
	Rejected   int `json:"rejected"`
	Duplicates int `json:"duplicates"`
	Errored    int `json:"errored"`
	Inserted   int `json:"inserted"`

	NewStories     int `json:"new_stories"`
	MergedArticles int `json:"merged_articles"`
}

// LogValue lets the report be attached to slog records as one group.
func (r BatchReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("fetched", r.Fetched),
		slog.Int("rejected", r.Rejected),
		slog.Int("duplicates", r.Duplicates),
		slog.Int("errored", r.Errored),
		slog.Int("inserted", r.Inserted),
		slog.Int("new_stories", r.NewStories),
		slog.Int("merged_articles", r.MergedArticles),
	)
}
