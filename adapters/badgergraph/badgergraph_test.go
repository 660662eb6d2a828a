package badgergraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpelletier/talentgraph/graph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s
}

func TestPutUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "alice", Features: []float64{1, 0, 1}}))

	attrs, err := s.UserAttributes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", attrs.Name)
	assert.Equal(t, []float64{1, 0, 1}, attrs.Features)
	assert.Empty(t, attrs.Embedding)
}

func TestUnknownUserYieldsZeroAttrs(t *testing.T) {
	s := openTestStore(t)

	attrs, err := s.UserAttributes(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, graph.UserAttrs{}, attrs)
}

func TestSetUserEmbeddingPreservesFeatures(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "alice", Features: []float64{1, 2}}))
	require.NoError(t, s.SetUserEmbedding(ctx, 1, []float64{0.5, 0.5}))

	attrs, err := s.UserAttributes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, attrs.Features)
	assert.Equal(t, []float64{0.5, 0.5}, attrs.Embedding)
}

func TestPutUserPreservesEmbedding(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "alice"}))
	require.NoError(t, s.SetUserEmbedding(ctx, 1, []float64{0.1}))
	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "alice b"}))

	attrs, err := s.UserAttributes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice b", attrs.Name)
	assert.Equal(t, []float64{0.1}, attrs.Embedding)
}

func TestNeighborsAreDirectedAndDeduped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutEdge(ctx, 1, 3))
	require.NoError(t, s.PutEdge(ctx, 4, 1))

	nbs, err := s.Neighbors(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, nbs)

	nbs, err = s.Neighbors(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, nbs)
}

func TestShortestPathChain(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutEdge(ctx, 2, 3))
	require.NoError(t, s.PutEdge(ctx, 3, 4))

	path, err := s.ShortestPath(ctx, 1, 4, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, path)
}

func TestShortestPathTraversesEdgesBothWays(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// 3 -> 2 and 3 -> 4: path from 2 to 4 exists only undirected.
	require.NoError(t, s.PutEdge(ctx, 3, 2))
	require.NoError(t, s.PutEdge(ctx, 3, 4))

	path, err := s.ShortestPath(ctx, 2, 4, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, path)
}

func TestShortestPathHopCap(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := int64(1); i < 8; i++ {
		require.NoError(t, s.PutEdge(ctx, i, i+1))
	}

	_, err := s.ShortestPath(ctx, 1, 8, 6)
	assert.True(t, errors.Is(err, graph.ErrNoPath))

	path, err := s.ShortestPath(ctx, 1, 7, 6)
	require.NoError(t, err)
	assert.Len(t, path, 7)
}

func TestShortestPathDisconnected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutEdge(ctx, 3, 4))

	_, err := s.ShortestPath(ctx, 1, 4, 6)
	assert.True(t, errors.Is(err, graph.ErrNoPath))
}

func TestShortestPathSameUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 5, Name: "eve"}))

	path, err := s.ShortestPath(ctx, 5, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, path)
}

func TestShortestPathSameUnknownUser(t *testing.T) {
	s := openTestStore(t)

	// No identity path for a node that is not in the store.
	_, err := s.ShortestPath(context.Background(), 42, 42, 6)
	assert.True(t, errors.Is(err, graph.ErrNoPath))
}

func TestUsersWithFeatures(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "alice", Features: []float64{1}}))
	require.NoError(t, s.PutUser(ctx, graph.User{ID: 2, Name: "bob"}))

	users, err := s.UsersWithFeatures(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ID)
}

func TestJobsWithEmbeddingSkipsBareJobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutJob(ctx, graph.Job{ID: "j1", Title: "engineer", Embedding: []float64{1, 0}}))
	require.NoError(t, s.PutJob(ctx, graph.Job{ID: "j2", Title: "manager"}))

	jobs, err := s.JobsWithEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)
}

func TestSearchUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "Alice Smith"}))
	require.NoError(t, s.PutUser(ctx, graph.User{ID: 2, Name: "Bob Alison"}))
	require.NoError(t, s.PutUser(ctx, graph.User{ID: 3, Name: "Carol"}))

	refs, err := s.SearchUsers(ctx, "alis", 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, int64(2), refs[0].ID)

	refs, err = s.SearchUsers(ctx, "3", 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Carol", refs[0].Name)

	refs, err = s.SearchUsers(ctx, "ali", 1)
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutUser(ctx, graph.User{ID: 1, Name: "alice", Features: []float64{1}}))
	require.NoError(t, s.PutUser(ctx, graph.User{ID: 2, Name: "bob"}))
	require.NoError(t, s.SetUserEmbedding(ctx, 1, []float64{0.5}))
	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutJob(ctx, graph.Job{ID: "j1", Embedding: []float64{1}}))
	require.NoError(t, s.PutJob(ctx, graph.Job{ID: "j2"}))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Users)
	assert.Equal(t, 2, st.Jobs)
	assert.Equal(t, 1, st.Edges)
	assert.Equal(t, 1, st.UsersWithFeatures)
	assert.Equal(t, 1, st.UsersWithEmbedding)
	assert.Equal(t, 1, st.JobsWithEmbedding)
	assert.Len(t, st.SampleUsers, 2)
}

func TestOpenAndReopenPersists(t *testing.T) {
	dir := t.TempDir()

	s, db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutUser(context.Background(), graph.User{ID: 7, Name: "grace"}))
	require.NoError(t, db.Close())

	s, db, err = Open(dir)
	require.NoError(t, err)
	defer db.Close()

	attrs, err := s.UserAttributes(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "grace", attrs.Name)
}

func TestEdgeCountSurvivesDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutEdge(ctx, 1, 2))
	require.NoError(t, s.PutEdge(ctx, 2, 1))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Edges)
}
