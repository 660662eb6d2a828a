package memgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/mpelletier/talentgraph/graph"
)

func seedChain(t *testing.T, s *Store, ids ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		if err := s.PutUser(ctx, graph.User{ID: id}); err != nil {
			t.Fatalf("PutUser: %v", err)
		}
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := s.PutEdge(ctx, ids[i], ids[i+1]); err != nil {
			t.Fatalf("PutEdge: %v", err)
		}
	}
}

func TestNeighbors_DirectedAndDeduplicated(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.PutEdge(ctx, 1, 2)
	_ = s.PutEdge(ctx, 1, 2) // duplicate pair ignored
	_ = s.PutEdge(ctx, 1, 3)
	_ = s.PutEdge(ctx, 4, 1) // in-edge, not a neighbor

	got, err := s.Neighbors(ctx, 1)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Expected [2 3], got %v", got)
	}
}

func TestUserAttributes_UnknownUserIsZero(t *testing.T) {
	s := New()
	attrs, err := s.UserAttributes(context.Background(), 42)
	if err != nil {
		t.Fatalf("UserAttributes: %v", err)
	}
	if attrs.Name != "" || len(attrs.Features) != 0 || len(attrs.Embedding) != 0 {
		t.Errorf("Expected zero attrs, got %+v", attrs)
	}
}

func TestShortestPath_FindsChain(t *testing.T) {
	s := New()
	seedChain(t, s, 1, 2, 3, 4)

	path, err := s.ShortestPath(context.Background(), 1, 4, 6)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	want := []int64{1, 2, 3, 4}
	if len(path) != len(want) {
		t.Fatalf("Expected %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, path)
		}
	}
}

func TestShortestPath_UndirectedTraversal(t *testing.T) {
	s := New()
	ctx := context.Background()
	// Edges point away from both endpoints; only an undirected walk connects them.
	_ = s.PutEdge(ctx, 2, 1)
	_ = s.PutEdge(ctx, 2, 3)

	path, err := s.ShortestPath(ctx, 1, 3, 6)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != 3 || path[0] != 1 || path[1] != 2 || path[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", path)
	}
}

func TestShortestPath_HopCap(t *testing.T) {
	s := New()
	seedChain(t, s, 1, 2, 3, 4, 5, 6, 7, 8) // 7 hops end to end

	if _, err := s.ShortestPath(context.Background(), 1, 8, 6); !errors.Is(err, graph.ErrNoPath) {
		t.Fatalf("Expected ErrNoPath beyond hop cap, got %v", err)
	}

	// Within the cap the same pair resolves.
	if _, err := s.ShortestPath(context.Background(), 1, 7, 6); err != nil {
		t.Fatalf("Expected path within cap, got %v", err)
	}
}

func TestShortestPath_Disconnected(t *testing.T) {
	s := New()
	seedChain(t, s, 1, 2)
	seedChain(t, s, 10, 11)

	if _, err := s.ShortestPath(context.Background(), 1, 11, 6); !errors.Is(err, graph.ErrNoPath) {
		t.Fatalf("Expected ErrNoPath, got %v", err)
	}
}

func TestShortestPath_SameUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.PutUser(ctx, graph.User{ID: 5, Name: "eve"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}

	path, err := s.ShortestPath(ctx, 5, 5, 6)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != 1 || path[0] != 5 {
		t.Errorf("Expected [5], got %v", path)
	}
}

func TestShortestPath_SameUnknownUser(t *testing.T) {
	s := New()

	// No identity path for a node that is not in the store.
	if _, err := s.ShortestPath(context.Background(), 42, 42, 6); !errors.Is(err, graph.ErrNoPath) {
		t.Fatalf("Expected ErrNoPath, got %v", err)
	}

	// An edge endpoint counts as a node even without a user record.
	if err := s.PutEdge(context.Background(), 1, 2); err != nil {
		t.Fatalf("PutEdge: %v", err)
	}
	path, err := s.ShortestPath(context.Background(), 2, 2, 6)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(path) != 1 || path[0] != 2 {
		t.Errorf("Expected [2], got %v", path)
	}
}

func TestSearchUsers(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.PutUser(ctx, graph.User{ID: 1, Name: "Alice Moreau"})
	_ = s.PutUser(ctx, graph.User{ID: 2, Name: "Bob Alicante"})
	_ = s.PutUser(ctx, graph.User{ID: 3, Name: "Carol"})

	got, err := s.SearchUsers(ctx, "alic", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("Expected users 1 and 2, got %+v", got)
	}

	byID, err := s.SearchUsers(ctx, "3", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(byID) != 1 || byID[0].Name != "Carol" {
		t.Errorf("Expected Carol by id, got %+v", byID)
	}
}

func TestStats(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.PutUser(ctx, graph.User{ID: 1, Name: "a", Features: []float64{1, 2}})
	_ = s.PutUser(ctx, graph.User{ID: 2, Name: "b"})
	_ = s.SetUserEmbedding(ctx, 1, []float64{0.1, 0.2})
	_ = s.PutEdge(ctx, 1, 2)
	_ = s.PutJob(ctx, graph.Job{ID: "j1", Title: "t", Embedding: []float64{1}})
	_ = s.PutJob(ctx, graph.Job{ID: "j2", Title: "t2"})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Users != 2 || st.Jobs != 2 || st.Edges != 1 {
		t.Errorf("Unexpected counts: %+v", st)
	}
	if st.UsersWithFeatures != 1 || st.UsersWithEmbedding != 1 || st.JobsWithEmbedding != 1 {
		t.Errorf("Unexpected coverage counts: %+v", st)
	}
	if len(st.SampleUsers) != 2 || st.SampleUsers[0].ID != 1 {
		t.Errorf("Unexpected samples: %+v", st.SampleUsers)
	}
}

func TestJobsWithEmbedding_SkipsBareJobs(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.PutJob(ctx, graph.Job{ID: "a", Embedding: []float64{1, 2}})
	_ = s.PutJob(ctx, graph.Job{ID: "b"})

	jobs, err := s.JobsWithEmbedding(ctx)
	if err != nil {
		t.Fatalf("JobsWithEmbedding: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "a" {
		t.Errorf("Expected only job a, got %+v", jobs)
	}
}
