// Package adapters wires the external services (VoyageAI, OpenAI, Pinecone)
// to the narrow interfaces the engine and the loaders consume. Credentials
// come from explicit arguments or, when nil, from the environment.
package adapters

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/protobuf/types/known/structpb"

	recommend "github.com/mpelletier/talentgraph"
	"github.com/mpelletier/talentgraph/adapters/openai"
	"github.com/mpelletier/talentgraph/adapters/pinecone"
	"github.com/mpelletier/talentgraph/adapters/voyage"
	"github.com/mpelletier/talentgraph/graph"
)

// VoyageEmbeddingAdapter adapts the Voyage client to the EmbeddingClient interface
type VoyageEmbeddingAdapter struct {
	client interface {
		GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	}
}

// NewVoyageEmbeddingAdapter creates a new adapter for Voyage AI
func NewVoyageEmbeddingAdapter(apiKey *string, dimensions int) (*VoyageEmbeddingAdapter, error) {
	key, err := loadEnvVar(apiKey, "VOYAGEAI_API_KEY")
	if err != nil {
		return nil, err
	}

	return &VoyageEmbeddingAdapter{
		client: voyage.NewEmbeddingService(*key, dimensions),
	}, nil
}

// Embed implements EmbeddingClient interface
func (a *VoyageEmbeddingAdapter) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vecs, err := a.client.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, err
	}
	return toFloat64Batch(vecs), nil
}

// OpenAIEmbeddingAdapter adapts the OpenAI client to the EmbeddingClient interface
type OpenAIEmbeddingAdapter struct {
	client interface {
		Embeddings(ctx context.Context, texts []string, dimensions int) ([][]float64, error)
	}
	dimensions int
}

// NewOpenAIEmbeddingAdapter creates a new adapter for OpenAI embeddings
func NewOpenAIEmbeddingAdapter(apiKey *string, dimensions int) (*OpenAIEmbeddingAdapter, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	return &OpenAIEmbeddingAdapter{
		client:     openai.NewClient(*key),
		dimensions: dimensions,
	}, nil
}

// Embed implements EmbeddingClient interface
func (a *OpenAIEmbeddingAdapter) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return a.client.Embeddings(ctx, texts, a.dimensions)
}

// PineconeJobIndex adapts a Pinecone index to the JobIndex interface, with
// posting fields carried in vector metadata.
type PineconeJobIndex struct {
	index interface {
		Search(ctx context.Context, queryVector []float32, topK int, filter map[string]any, includeMetadata bool) ([]pinecone.QueryMatch, error)
		Upsert(ctx context.Context, vectors []pinecone.Vector) error
	}
}

// NewPineconeJobIndex creates a new adapter for Pinecone
func NewPineconeJobIndex(apiKey *string, host *string, namespace string) (*PineconeJobIndex, error) {
	key, err := loadEnvVar(apiKey, "PINECONE_API_KEY")
	if err != nil {
		return nil, err
	}

	h, err := loadEnvVar(host, "PINECONE_HOST")
	if err != nil {
		return nil, err
	}

	client, err := pinecone.NewService(*key)
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone service: %w", err)
	}

	index, err := client.ForIndex(*h, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index: %w", err)
	}

	return &PineconeJobIndex{
		index: index,
	}, nil
}

var _ recommend.JobIndex = (*PineconeJobIndex)(nil)

// TopJobs implements JobIndex interface
func (a *PineconeJobIndex) TopJobs(ctx context.Context, embedding []float64, limit int) ([]recommend.ScoredJob, error) {
	matches, err := a.index.Search(ctx, toFloat32(embedding), limit, nil, true)
	if err != nil {
		return nil, err
	}

	jobs := make([]recommend.ScoredJob, 0, len(matches))
	for _, match := range matches {
		if match.Vector == nil {
			continue
		}
		job := recommend.ScoredJob{
			ID:    match.Vector.Id,
			Score: float64(match.Score),
		}
		if match.Vector.Metadata != nil {
			meta := match.Vector.Metadata.AsMap()
			job.Title, _ = meta["title"].(string)
			job.Company, _ = meta["company"].(string)
			job.Location, _ = meta["location"].(string)
			job.PostingURL, _ = meta["posting_url"].(string)
			if salary, ok := meta["normalized_salary"].(float64); ok {
				job.Salary = &salary
			}
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// UpsertJobs stores job postings and their embeddings in the index
func (a *PineconeJobIndex) UpsertJobs(ctx context.Context, jobs []graph.Job) error {
	vectors := make([]pinecone.Vector, 0, len(jobs))
	for _, j := range jobs {
		if len(j.Embedding) == 0 {
			continue
		}

		meta := map[string]any{
			"title":       j.Title,
			"company":     j.Company,
			"location":    j.Location,
			"posting_url": j.PostingURL,
		}
		if j.Salary != nil {
			meta["normalized_salary"] = *j.Salary
		}
		metadataStruct, err := structpb.NewStruct(meta)
		if err != nil {
			return fmt.Errorf("failed to build metadata for job %s: %w", j.ID, err)
		}

		vectors = append(vectors, pinecone.Vector{
			Id:     j.ID,
			Values: toFloat32(j.Embedding),
			Metadata: &pinecone.Metadata{
				Fields: metadataStruct.Fields,
			},
		})
	}
	if len(vectors) == 0 {
		return nil
	}

	return a.index.Upsert(ctx, vectors)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func toFloat64Batch(vs [][]float32) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = make([]float64, len(v))
		for j, x := range v {
			out[i][j] = float64(x)
		}
	}
	return out
}

// loadEnvVar loads an environment variable into a pointer if no value is provided
func loadEnvVar(target *string, envKey string) (*string, error) {
	if target == nil {
		envVar := os.Getenv(envKey)
		if envVar == "" {
			return nil, fmt.Errorf("%s environment variable not set and no value provided", envKey)
		}
		return &envVar, nil
	}
	return target, nil
}
