// Package badgergraph is a BadgerDB-backed implementation of the graph
// store, giving the service durable node and edge storage without an
// external database process.
//
// Layout: one key per user ("user:<id>"), per job ("job:<id>") and per
// adjacency list ("adj:<id>" out-neighbors, "radj:<id>" in-neighbors), with
// JSON values. The edge total is kept under "meta:edges".
package badgergraph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/mpelletier/talentgraph/graph"
)

const (
	userKeyPrefix = "user:"
	jobKeyPrefix  = "job:"
	adjKeyPrefix  = "adj:"
	radjKeyPrefix = "radj:"
	edgeCountKey  = "meta:edges"
)

type userRecord struct {
	Name      string    `json:"name,omitempty"`
	Features  []float64 `json:"features,omitempty"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// Store is a graph store over a Badger database. The *badger.DB handle is
// owned by the caller: open at process start, close at shutdown.
type Store struct {
	db *badger.DB
}

// New wraps an open Badger database.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if necessary) a Badger database at path.
func Open(path string) (*Store, *badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return New(db), db, nil
}

// OpenInMemory opens an in-memory Badger database, used by tests.
func OpenInMemory() (*Store, *badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return New(db), db, nil
}

var _ graph.Store = (*Store)(nil)
var _ graph.Writer = (*Store)(nil)

func userKey(id int64) []byte { return []byte(userKeyPrefix + strconv.FormatInt(id, 10)) }
func adjKey(id int64) []byte  { return []byte(adjKeyPrefix + strconv.FormatInt(id, 10)) }
func radjKey(id int64) []byte { return []byte(radjKeyPrefix + strconv.FormatInt(id, 10)) }

// PutUser creates or replaces a user node, preserving a previously stored
// embedding.
func (s *Store) PutUser(ctx context.Context, u graph.User) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var rec userRecord
		if err := readJSON(txn, userKey(u.ID), &rec); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get user %d: %w", u.ID, err)
		}
		rec.Name = u.Name
		rec.Features = u.Features
		return writeJSON(txn, userKey(u.ID), rec)
	})
}

// PutEdge records a directed KNOWS edge in both adjacency lists. Duplicate
// pairs are ignored.
func (s *Store) PutEdge(ctx context.Context, from, to int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		added, err := appendToList(txn, adjKey(from), to)
		if err != nil {
			return fmt.Errorf("update adjacency of %d: %w", from, err)
		}
		if !added {
			return nil
		}
		if _, err := appendToList(txn, radjKey(to), from); err != nil {
			return fmt.Errorf("update reverse adjacency of %d: %w", to, err)
		}

		var count int64
		if err := readJSON(txn, []byte(edgeCountKey), &count); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get edge count: %w", err)
		}
		return writeJSON(txn, []byte(edgeCountKey), count+1)
	})
}

// PutJob creates or replaces a job node.
func (s *Store) PutJob(ctx context.Context, j graph.Job) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return writeJSON(txn, []byte(jobKeyPrefix+j.ID), j)
	})
}

// SetUserEmbedding attaches an embedding to a user, creating the node if
// needed.
func (s *Store) SetUserEmbedding(ctx context.Context, userID int64, embedding []float64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var rec userRecord
		if err := readJSON(txn, userKey(userID), &rec); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get user %d: %w", userID, err)
		}
		rec.Embedding = embedding
		return writeJSON(txn, userKey(userID), rec)
	})
}

func (s *Store) Neighbors(ctx context.Context, userID int64) ([]int64, error) {
	var out []int64
	err := s.db.View(func(txn *badger.Txn) error {
		if err := readJSON(txn, adjKey(userID), &out); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("neighbors of %d: %w", userID, err)
	}
	return out, nil
}

func (s *Store) UserAttributes(ctx context.Context, userID int64) (graph.UserAttrs, error) {
	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		if err := readJSON(txn, userKey(userID), &rec); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return graph.UserAttrs{}, fmt.Errorf("attributes of %d: %w", userID, err)
	}
	return graph.UserAttrs{Name: rec.Name, Features: rec.Features, Embedding: rec.Embedding}, nil
}

func (s *Store) UsersWithFeatures(ctx context.Context) ([]graph.UserFeatures, error) {
	var out []graph.UserFeatures
	err := s.db.View(func(txn *badger.Txn) error {
		return scanUsers(txn, func(id int64, rec userRecord) {
			if len(rec.Features) > 0 {
				out = append(out, graph.UserFeatures{ID: id, Name: rec.Name, Features: rec.Features})
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan users with features: %w", err)
	}
	return out, nil
}

func (s *Store) JobsWithEmbedding(ctx context.Context) ([]graph.Job, error) {
	var out []graph.Job
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(prefixIterator(jobKeyPrefix))
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var j graph.Job
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &j)
			}); err != nil {
				return err
			}
			if len(j.Embedding) > 0 {
				out = append(out, j)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan jobs with embedding: %w", err)
	}
	return out, nil
}

// ShortestPath runs a breadth-first search over the undirected view of the
// KNOWS graph inside one read transaction, capped at maxHops edges.
func (s *Store) ShortestPath(ctx context.Context, from, to int64, maxHops int) ([]int64, error) {
	var path []int64
	err := s.db.View(func(txn *badger.Txn) error {
		// The identity path only exists when the node itself does, either
		// as a stored user or as an edge endpoint.
		if from == to {
			for _, key := range [][]byte{userKey(from), adjKey(from), radjKey(from)} {
				_, err := txn.Get(key)
				if err == nil {
					path = []int64{from}
					return nil
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
			}
			return graph.ErrNoPath
		}

		prev := map[int64]int64{from: from}
		frontier := []int64{from}

		for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			var next []int64
			for _, node := range frontier {
				nbs, err := undirectedNeighbors(txn, node)
				if err != nil {
					return err
				}
				for _, nb := range nbs {
					if _, seen := prev[nb]; seen {
						continue
					}
					prev[nb] = node
					if nb == to {
						path = buildPath(prev, from, to)
						return nil
					}
					next = append(next, nb)
				}
			}
			frontier = next
		}
		return graph.ErrNoPath
	})
	if err != nil {
		if errors.Is(err, graph.ErrNoPath) {
			return nil, graph.ErrNoPath
		}
		return nil, fmt.Errorf("shortest path %d -> %d: %w", from, to, err)
	}
	return path, nil
}

func (s *Store) SearchUsers(ctx context.Context, q string, limit int) ([]graph.UserRef, error) {
	needle := strings.ToLower(q)
	var out []graph.UserRef
	err := s.db.View(func(txn *badger.Txn) error {
		return scanUsers(txn, func(id int64, rec userRecord) {
			if limit > 0 && len(out) >= limit {
				return
			}
			if strconv.FormatInt(id, 10) == q || (needle != "" && strings.Contains(strings.ToLower(rec.Name), needle)) {
				out = append(out, graph.UserRef{ID: id, Name: rec.Name})
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (graph.Stats, error) {
	var st graph.Stats
	err := s.db.View(func(txn *badger.Txn) error {
		if err := scanUsers(txn, func(id int64, rec userRecord) {
			st.Users++
			if len(rec.Features) > 0 {
				st.UsersWithFeatures++
			}
			if len(rec.Embedding) > 0 {
				st.UsersWithEmbedding++
			}
			if len(st.SampleUsers) < 5 {
				st.SampleUsers = append(st.SampleUsers, graph.UserRef{ID: id, Name: rec.Name})
			}
		}); err != nil {
			return err
		}

		it := txn.NewIterator(prefixIterator(jobKeyPrefix))
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			st.Jobs++
			var j graph.Job
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &j)
			}); err != nil {
				return err
			}
			if len(j.Embedding) > 0 {
				st.JobsWithEmbedding++
			}
		}

		var count int64
		if err := readJSON(txn, []byte(edgeCountKey), &count); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		st.Edges = int(count)
		return nil
	})
	if err != nil {
		return graph.Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return st, nil
}

func appendToList(txn *badger.Txn, key []byte, id int64) (bool, error) {
	var list []int64
	if err := readJSON(txn, key, &list); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return false, err
	}
	for _, existing := range list {
		if existing == id {
			return false, nil
		}
	}
	list = append(list, id)
	return true, writeJSON(txn, key, list)
}

func undirectedNeighbors(txn *badger.Txn, id int64) ([]int64, error) {
	var out, in []int64
	if err := readJSON(txn, adjKey(id), &out); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}
	if err := readJSON(txn, radjKey(id), &in); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}

	set := make(map[int64]bool, len(out)+len(in))
	merged := make([]int64, 0, len(out)+len(in))
	for _, nb := range append(out, in...) {
		if !set[nb] {
			set[nb] = true
			merged = append(merged, nb)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return merged, nil
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

func scanUsers(txn *badger.Txn, fn func(id int64, rec userRecord)) error {
	it := txn.NewIterator(prefixIterator(userKeyPrefix))
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		id, err := strconv.ParseInt(strings.TrimPrefix(string(item.Key()), userKeyPrefix), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed user key %q: %w", item.Key(), err)
		}
		var rec userRecord
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		}); err != nil {
			return err
		}
		fn(id, rec)
	}
	return nil
}

func prefixIterator(prefix string) badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	return opts
}

func readJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func writeJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}
