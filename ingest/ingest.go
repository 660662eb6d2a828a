// Package ingest holds the offline loaders: SNAP social graph files, job
// posting dumps, and the feature-to-embedding projection pass. Loaders write
// through the graph.Writer contract and never touch the serving path.
package ingest

import "context"

// EmbeddingClient computes dense embeddings for a batch of texts. The order
// of the returned vectors matches the order of the inputs.
type EmbeddingClient interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
