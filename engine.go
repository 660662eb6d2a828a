// Package recommend implements similarity-based recommendations over a
// professional social graph: friend suggestions ranked by mutual
// connections, "people you may know" ranked by Pearson correlation over raw
// feature vectors, and job matches ranked by cosine similarity over shared
// embeddings.
//
// The engine reads everything through a graph.Store collaborator and holds
// no state between requests; every ranking is a single in-memory scoring
// pass over the candidate pool the store returns.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mpelletier/talentgraph/graph"
	"github.com/mpelletier/talentgraph/vectormath"
)

// Engine orchestrates candidate fetching, scoring, filtering and ranking.
// It is safe for concurrent use: all methods are pure with respect to the
// engine and the store is the only I/O dependency.
type Engine struct {
	store    graph.Store
	jobIndex JobIndex
	limit    int
	maxHops  int
	log      zerolog.Logger
}

// New creates an Engine over the given store. The store handle is passed
// explicitly and its lifecycle belongs to the caller; the engine never opens
// or closes it.
func New(store graph.Store, cfg Config, log zerolog.Logger) *Engine {
	cfg.applyDefaults()

	return &Engine{
		store:    store,
		jobIndex: cfg.JobIndex,
		limit:    cfg.Limit,
		maxHops:  cfg.MaxHops,
		log:      log,
	}
}

// Friends recommends users ranked by the number of distinct mutual
// connections with the target. Direct neighbors and the target itself are
// excluded. A user with no neighbors yields an empty result.
func (e *Engine) Friends(ctx context.Context, userID int64, limit int) ([]ScoredUser, error) {
	if limit <= 0 {
		limit = e.limit
	}

	counts, err := e.mutualCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]ScoredUser, 0, len(counts))
	for id, n := range counts {
		candidates = append(candidates, ScoredUser{ID: id, Score: float64(n)})
	}

	// Map iteration order is random; fix candidate order before the stable
	// sort so ties rank deterministically.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	for i := range candidates {
		attrs, err := e.store.UserAttributes(ctx, candidates[i].ID)
		if err != nil {
			return nil, fmt.Errorf("fetch attributes of user %d: %w", candidates[i].ID, err)
		}
		candidates[i].Name = attrs.Name
	}

	e.log.Debug().Int64("user_id", userID).Int("candidates", len(counts)).Int("returned", len(candidates)).
		Msg("friend recommendations computed")

	return candidates, nil
}

// FriendCounts reports the direct-neighbor count and the number of distinct
// friend-of-friend candidates for a user, independent of any limit.
func (e *Engine) FriendCounts(ctx context.Context, userID int64) (FriendCounts, error) {
	direct, err := e.store.Neighbors(ctx, userID)
	if err != nil {
		return FriendCounts{}, fmt.Errorf("fetch neighbors of user %d: %w", userID, err)
	}

	counts, err := e.mutualCounts(ctx, userID)
	if err != nil {
		return FriendCounts{}, err
	}

	return FriendCounts{
		DirectFriends:    len(dedupe(direct)),
		FriendsOfFriends: len(counts),
	}, nil
}

// mutualCounts walks the two-hop neighborhood of userID and counts, for every
// second-degree candidate, how many distinct first-degree neighbors connect
// it to the target.
func (e *Engine) mutualCounts(ctx context.Context, userID int64) (map[int64]int, error) {
	direct, err := e.store.Neighbors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch neighbors of user %d: %w", userID, err)
	}

	directSet := make(map[int64]bool, len(direct))
	for _, id := range direct {
		directSet[id] = true
	}

	counts := make(map[int64]int)
	for _, friend := range dedupe(direct) {
		second, err := e.store.Neighbors(ctx, friend)
		if err != nil {
			return nil, fmt.Errorf("fetch neighbors of user %d: %w", friend, err)
		}
		for _, candidate := range dedupe(second) {
			if candidate == userID || directSet[candidate] {
				continue
			}
			counts[candidate]++
		}
	}

	return counts, nil
}

// PeopleYouMayKnow recommends users by Pearson correlation between raw
// feature vectors. Only candidates whose vector length exactly matches the
// target's are scored; raw features are compared as stored, never projected.
// Negative correlations are legitimate results and are kept.
func (e *Engine) PeopleYouMayKnow(ctx context.Context, userID int64, limit int) ([]ScoredUser, error) {
	if limit <= 0 {
		limit = e.limit
	}

	attrs, err := e.store.UserAttributes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch attributes of user %d: %w", userID, err)
	}
	if len(attrs.Features) == 0 {
		// No features is a valid state, not an error.
		return nil, nil
	}

	pool, err := e.store.UsersWithFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feature candidates: %w", err)
	}

	scored := make([]ScoredUser, 0, len(pool))
	for _, cand := range pool {
		if cand.ID == userID || len(cand.Features) != len(attrs.Features) {
			continue
		}
		score, err := vectormath.Pearson(attrs.Features, cand.Features)
		if err != nil || math.IsNaN(score) {
			// Cannot happen after the length check; filtered anyway so a
			// bad candidate never poisons the ranking.
			continue
		}
		scored = append(scored, ScoredUser{ID: cand.ID, Name: cand.Name, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}

// Jobs recommends jobs by cosine similarity between the user's embedding and
// each job embedding. Pairs with mismatched dimensions or a zero-norm side
// are excluded, and only strictly positive scores are kept: unlike people
// matching, a negative similarity is not a useful job recommendation.
func (e *Engine) Jobs(ctx context.Context, userID int64, limit int) ([]ScoredJob, error) {
	if limit <= 0 {
		limit = e.limit
	}

	attrs, err := e.store.UserAttributes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch attributes of user %d: %w", userID, err)
	}
	if len(attrs.Embedding) == 0 {
		return nil, nil
	}

	jobs, err := e.store.JobsWithEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch job candidates: %w", err)
	}

	scored := make([]ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		if len(job.Embedding) != len(attrs.Embedding) {
			continue
		}
		score, ok := vectormath.Cosine(attrs.Embedding, job.Embedding)
		if !ok || score <= 0 {
			continue
		}
		scored = append(scored, scoredJobFromGraph(job, score))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}

// JobsIndexed ranks jobs through the configured external vector index
// instead of a brute-force scan. The positive-score policy is identical to
// Jobs; ordering is the index's similarity order.
func (e *Engine) JobsIndexed(ctx context.Context, userID int64, limit int) ([]ScoredJob, error) {
	if e.jobIndex == nil {
		return nil, fmt.Errorf("no job index configured")
	}
	if limit <= 0 {
		limit = e.limit
	}

	attrs, err := e.store.UserAttributes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch attributes of user %d: %w", userID, err)
	}
	if len(attrs.Embedding) == 0 {
		return nil, nil
	}

	matches, err := e.jobIndex.TopJobs(ctx, attrs.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("query job index: %w", err)
	}

	scored := matches[:0]
	for _, m := range matches {
		if m.Score > 0 {
			scored = append(scored, m)
		}
	}

	return scored, nil
}

// ShortestPath returns the shortest KNOWS chain between two users, traversed
// in either direction and capped at the configured hop limit. The traversal
// itself is the store's native capability; graph.ErrNoPath passes through
// untouched so callers can tell "not connected" from a store failure.
func (e *Engine) ShortestPath(ctx context.Context, from, to int64) ([]int64, error) {
	path, err := e.store.ShortestPath(ctx, from, to, e.maxHops)
	if err != nil {
		if errors.Is(err, graph.ErrNoPath) {
			return nil, err
		}
		return nil, fmt.Errorf("shortest path %d -> %d: %w", from, to, err)
	}
	return path, nil
}

// dedupe returns ids with duplicates removed, preserving first-seen order.
// Stores are expected to hold at most one edge per ordered pair, but the
// mutual counts must not depend on that.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
