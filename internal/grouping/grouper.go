// Package grouping folds near-duplicate coverage of one event into
// stories. Matching is incremental nearest-neighbor over embedding
// vectors: each new article is compared against a sliding working set of
// recent articles and joins the story of its best match, or starts its
// own.
package grouping

import (
	"fmt"
	"math"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/domain"
	"github.com/google/uuid"
)

const (
	// DefaultSimilarityThreshold is the cosine similarity at or above
	// which two articles are treated as the same story. Empirically
	// chosen upstream; configurable, not derived.
	DefaultSimilarityThreshold = 0.52

	// DefaultWindow is how far back the working set is seeded from
	// persisted articles at the start of a batch.
	DefaultWindow = 5 * 24 * time.Hour
)

// Entry is one (article, vector, story) triple in the working set.
type Entry struct {
	ArticleID uuid.UUID
	GroupID   uuid.UUID
	Vector    []float32
}

// WorkingSet is the grouper's sliding collection of recent articles. It
// is seeded once per batch and then grown in place as the batch is
// processed; the mutation between articles is what produces the
// single-linkage chaining (C can join A's story via B even when A and C
// are not directly similar). Callers must process a batch sequentially.
type WorkingSet struct {
	entries   []Entry
	threshold float64
}

func NewWorkingSet(threshold float64) *WorkingSet {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &WorkingSet{threshold: threshold}
}

// Seed loads the window articles and their batch-embedded vectors.
// vectors[i] must correspond to articles[i].
func (ws *WorkingSet) Seed(articles []domain.Article, vectors [][]float32) error {
	if len(articles) != len(vectors) {
		return fmt.Errorf("seed: %d articles but %d vectors", len(articles), len(vectors))
	}
	for i, a := range articles {
		groupID := a.GroupID
		if groupID == uuid.Nil {
			groupID = a.ID
		}
		ws.entries = append(ws.entries, Entry{
			ArticleID: a.ID,
			GroupID:   groupID,
			Vector:    vectors[i],
		})
	}
	return nil
}

// Add records an assigned article so later articles in the same batch
// can match against it.
func (ws *WorkingSet) Add(articleID, groupID uuid.UUID, vector []float32) {
	ws.entries = append(ws.entries, Entry{ArticleID: articleID, GroupID: groupID, Vector: vector})
}

// Len returns the number of entries currently in the set.
func (ws *WorkingSet) Len() int {
	return len(ws.entries)
}

// Match scans every entry and returns the story of the most similar one,
// the similarity achieved, and whether it cleared the threshold.
func (ws *WorkingSet) Match(vector []float32) (uuid.UUID, float64, bool) {
	var (
		maxSim  float64
		matched uuid.UUID
	)
	for _, e := range ws.entries {
		sim := CosineSimilarity(vector, e.Vector)
		if sim > maxSim {
			maxSim = sim
			matched = e.GroupID
		}
	}
	if matched != uuid.Nil && maxSim >= ws.threshold {
		return matched, maxSim, true
	}
	return uuid.Nil, maxSim, false
}

// Assign is the convenience form of the Match/Add pair for callers with
// no persistence step between the two. It resolves the story for a new
// article and immediately records the triple so the next article in the
// batch sees it. Returns the article's own id when it starts a new story.
func (ws *WorkingSet) Assign(articleID uuid.UUID, vector []float32) uuid.UUID {
	groupID, _, ok := ws.Match(vector)
	if !ok {
		groupID = articleID
	}
	ws.Add(articleID, groupID, vector)
	return groupID
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is empty, zero, or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
