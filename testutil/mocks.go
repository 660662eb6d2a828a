// Package testutil provides mock collaborators for tests.
package testutil

import (
	"context"
	"sync"

	recommend "github.com/mpelletier/talentgraph"
	"github.com/mpelletier/talentgraph/graph"
)

// MockStore is a func-field mock of graph.Store. Unset fields return empty
// results so tests only configure what they assert on.
type MockStore struct {
	NeighborsFunc         func(ctx context.Context, userID int64) ([]int64, error)
	UserAttributesFunc    func(ctx context.Context, userID int64) (graph.UserAttrs, error)
	UsersWithFeaturesFunc func(ctx context.Context) ([]graph.UserFeatures, error)
	JobsWithEmbeddingFunc func(ctx context.Context) ([]graph.Job, error)
	ShortestPathFunc      func(ctx context.Context, from, to int64, maxHops int) ([]int64, error)
	SearchUsersFunc       func(ctx context.Context, q string, limit int) ([]graph.UserRef, error)
	StatsFunc             func(ctx context.Context) (graph.Stats, error)

	mu             sync.Mutex
	NeighborCalls  int
	AttributeCalls int
}

func (m *MockStore) Neighbors(ctx context.Context, userID int64) ([]int64, error) {
	m.mu.Lock()
	m.NeighborCalls++
	m.mu.Unlock()

	if m.NeighborsFunc != nil {
		return m.NeighborsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) UserAttributes(ctx context.Context, userID int64) (graph.UserAttrs, error) {
	m.mu.Lock()
	m.AttributeCalls++
	m.mu.Unlock()

	if m.UserAttributesFunc != nil {
		return m.UserAttributesFunc(ctx, userID)
	}
	return graph.UserAttrs{}, nil
}

func (m *MockStore) UsersWithFeatures(ctx context.Context) ([]graph.UserFeatures, error) {
	if m.UsersWithFeaturesFunc != nil {
		return m.UsersWithFeaturesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) JobsWithEmbedding(ctx context.Context) ([]graph.Job, error) {
	if m.JobsWithEmbeddingFunc != nil {
		return m.JobsWithEmbeddingFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) ShortestPath(ctx context.Context, from, to int64, maxHops int) ([]int64, error) {
	if m.ShortestPathFunc != nil {
		return m.ShortestPathFunc(ctx, from, to, maxHops)
	}
	return nil, graph.ErrNoPath
}

func (m *MockStore) SearchUsers(ctx context.Context, q string, limit int) ([]graph.UserRef, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, q, limit)
	}
	return nil, nil
}

func (m *MockStore) Stats(ctx context.Context) (graph.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return graph.Stats{}, nil
}

// MockJobIndex is a mock of the optional external job vector index.
type MockJobIndex struct {
	TopJobsFunc func(ctx context.Context, embedding []float64, limit int) ([]recommend.ScoredJob, error)

	mu        sync.Mutex
	CallCount int
}

func (m *MockJobIndex) TopJobs(ctx context.Context, embedding []float64, limit int) ([]recommend.ScoredJob, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.TopJobsFunc != nil {
		return m.TopJobsFunc(ctx, embedding, limit)
	}
	return nil, nil
}

// MockEmbeddingClient is a mock of the ingestion-side embedding oracle.
type MockEmbeddingClient struct {
	EmbedFunc func(ctx context.Context, texts []string) ([][]float64, error)

	mu        sync.Mutex
	CallCount int
	LastTexts []string
}

func (m *MockEmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastTexts = texts
	m.mu.Unlock()

	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, texts)
	}

	// Default: a fixed-length embedding derived from text length.
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec := make([]float64, 8)
		for j := range vec {
			vec[j] = float64(len(t)%7+1) / 10.0
		}
		out[i] = vec
	}
	return out, nil
}
