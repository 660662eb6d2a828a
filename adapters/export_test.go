package adapters

import (
	"context"

	"github.com/mpelletier/talentgraph/adapters/pinecone"
)

// Hooks for the external test package: build adapters around fake backends
// without constructing the real SDK clients.

type EmbeddingBackend = interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

type PineconeBackend = interface {
	Search(ctx context.Context, queryVector []float32, topK int, filter map[string]any, includeMetadata bool) ([]pinecone.QueryMatch, error)
	Upsert(ctx context.Context, vectors []pinecone.Vector) error
}

func NewVoyageEmbeddingAdapterWithClient(client EmbeddingBackend) *VoyageEmbeddingAdapter {
	return &VoyageEmbeddingAdapter{client: client}
}

func NewPineconeJobIndexWithBackend(index PineconeBackend) *PineconeJobIndex {
	return &PineconeJobIndex{index: index}
}

var LoadEnvVar = loadEnvVar
