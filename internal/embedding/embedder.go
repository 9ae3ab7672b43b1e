// Package embedding provides the text-embedding capability the story
// grouper depends on. The engine treats it as a black box: text in,
// fixed-length vector out.
package embedding

import "context"

type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in input order.
	// The grouper uses this for the trailing window and for each new
	// batch so embedding cost is amortized over one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
