// Package voyage wraps the VoyageAI SDK behind the embedding-oracle shape
// the ingestion pipeline consumes.
package voyage

import (
	"context"
	"fmt"

	"github.com/austinfhunter/voyageai"
)

const DefaultModel = "voyage-3.5-lite"

// embeddingService handles generating embeddings for text
type embeddingService struct {
	client     *voyageai.VoyageClient
	dimensions int
	model      string
}

// NewEmbeddingService creates a new embedding service with the given output
// dimensionality. Embeddings are only comparable to vectors produced with
// the same model and dimension.
func NewEmbeddingService(apiKey string, dimensions int) *embeddingService {
	return &embeddingService{
		client: voyageai.NewClient(&voyageai.VoyageClientOpts{
			Key: apiKey,
		}),
		dimensions: dimensions,
		model:      DefaultModel,
	}
}

// SetModel sets the model used for embedding requests
func (es *embeddingService) SetModel(model string) {
	es.model = model
}

// GenerateEmbeddings generates embeddings for a batch of texts
func (es *embeddingService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	dimensions := es.dimensions

	embeddings, err := es.client.Embed(
		texts,
		es.model,
		&voyageai.EmbeddingRequestOpts{
			OutputDimension: &dimensions,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not get embeddings: %w", err)
	}

	out := make([][]float32, len(embeddings.Data))
	for i, obj := range embeddings.Data {
		out[i] = obj.Embedding
	}
	return out, nil
}
