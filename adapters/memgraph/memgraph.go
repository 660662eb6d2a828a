// Package memgraph is an in-memory implementation of the graph store,
// used by tests and the demo configuration. All operations copy data out so
// callers never alias internal state.
package memgraph

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mpelletier/talentgraph/graph"
)

type userRecord struct {
	name      string
	features  []float64
	embedding []float64
}

// Store keeps users, jobs and KNOWS adjacency in maps guarded by a single
// RWMutex. Reads are concurrent; the offline loaders are the only writers.
type Store struct {
	mu    sync.RWMutex
	users map[int64]*userRecord
	jobs  map[string]graph.Job
	out   map[int64]map[int64]bool
	in    map[int64]map[int64]bool
	edges int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users: make(map[int64]*userRecord),
		jobs:  make(map[string]graph.Job),
		out:   make(map[int64]map[int64]bool),
		in:    make(map[int64]map[int64]bool),
	}
}

var _ graph.Store = (*Store)(nil)
var _ graph.Writer = (*Store)(nil)

// PutUser creates or replaces a user node.
func (s *Store) PutUser(ctx context.Context, u graph.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.users[u.ID]
	if rec == nil {
		rec = &userRecord{}
		s.users[u.ID] = rec
	}
	rec.name = u.Name
	rec.features = append([]float64(nil), u.Features...)
	return nil
}

// PutEdge records a directed KNOWS edge. Duplicate pairs are ignored.
func (s *Store) PutEdge(ctx context.Context, from, to int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out[from] == nil {
		s.out[from] = make(map[int64]bool)
	}
	if s.out[from][to] {
		return nil
	}
	s.out[from][to] = true

	if s.in[to] == nil {
		s.in[to] = make(map[int64]bool)
	}
	s.in[to][from] = true
	s.edges++
	return nil
}

// PutJob creates or replaces a job node.
func (s *Store) PutJob(ctx context.Context, j graph.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j.Embedding = append([]float64(nil), j.Embedding...)
	s.jobs[j.ID] = j
	return nil
}

// SetUserEmbedding attaches an embedding to an existing user, creating the
// node if needed.
func (s *Store) SetUserEmbedding(ctx context.Context, userID int64, embedding []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.users[userID]
	if rec == nil {
		rec = &userRecord{}
		s.users[userID] = rec
	}
	rec.embedding = append([]float64(nil), embedding...)
	return nil
}

func (s *Store) Neighbors(ctx context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.out[userID]))
	for id := range s.out[userID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) UserAttributes(ctx context.Context, userID int64) (graph.UserAttrs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.users[userID]
	if rec == nil {
		return graph.UserAttrs{}, nil
	}
	return graph.UserAttrs{
		Name:      rec.name,
		Features:  append([]float64(nil), rec.features...),
		Embedding: append([]float64(nil), rec.embedding...),
	}, nil
}

func (s *Store) UsersWithFeatures(ctx context.Context) ([]graph.UserFeatures, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]graph.UserFeatures, 0)
	for id, rec := range s.users {
		if len(rec.features) == 0 {
			continue
		}
		out = append(out, graph.UserFeatures{
			ID:       id,
			Name:     rec.name,
			Features: append([]float64(nil), rec.features...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) JobsWithEmbedding(ctx context.Context) ([]graph.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]graph.Job, 0)
	for _, j := range s.jobs {
		if len(j.Embedding) == 0 {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ShortestPath runs a breadth-first search over the undirected view of the
// KNOWS graph, capped at maxHops edges.
func (s *Store) ShortestPath(ctx context.Context, from, to int64, maxHops int) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if from == to {
		// The identity path only exists when the node itself does, either
		// as a stored user or as an edge endpoint.
		_, ok := s.users[from]
		if !ok && len(s.out[from]) == 0 && len(s.in[from]) == 0 {
			return nil, graph.ErrNoPath
		}
		return []int64{from}, nil
	}

	prev := map[int64]int64{from: from}
	frontier := []int64{from}

	for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
		next := []int64{}
		for _, node := range frontier {
			for _, nb := range s.undirected(node) {
				if _, seen := prev[nb]; seen {
					continue
				}
				prev[nb] = node
				if nb == to {
					return buildPath(prev, from, to), nil
				}
				next = append(next, nb)
			}
		}
		frontier = next
	}

	return nil, graph.ErrNoPath
}

// undirected merges out- and in-neighbors, sorted for deterministic paths.
func (s *Store) undirected(id int64) []int64 {
	set := make(map[int64]bool, len(s.out[id])+len(s.in[id]))
	for nb := range s.out[id] {
		set[nb] = true
	}
	for nb := range s.in[id] {
		set[nb] = true
	}
	out := make([]int64, 0, len(set))
	for nb := range set {
		out = append(out, nb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func buildPath(prev map[int64]int64, from, to int64) []int64 {
	path := []int64{to}
	for node := to; node != from; node = prev[node] {
		path = append(path, prev[node])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// SearchUsers matches an exact id or a case-insensitive name substring.
func (s *Store) SearchUsers(ctx context.Context, q string, limit int) ([]graph.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q)
	out := []graph.UserRef{}
	for id, rec := range s.users {
		if strconv.FormatInt(id, 10) == q || (needle != "" && strings.Contains(strings.ToLower(rec.name), needle)) {
			out = append(out, graph.UserRef{ID: id, Name: rec.name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (graph.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := graph.Stats{
		Users: len(s.users),
		Jobs:  len(s.jobs),
		Edges: s.edges,
	}
	ids := make([]int64, 0, len(s.users))
	for id, rec := range s.users {
		ids = append(ids, id)
		if len(rec.features) > 0 {
			st.UsersWithFeatures++
		}
		if len(rec.embedding) > 0 {
			st.UsersWithEmbedding++
		}
	}
	for _, j := range s.jobs {
		if len(j.Embedding) > 0 {
			st.JobsWithEmbedding++
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if len(st.SampleUsers) == 5 {
			break
		}
		st.SampleUsers = append(st.SampleUsers, graph.UserRef{ID: id, Name: s.users[id].name})
	}
	return st, nil
}
