package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpelletier/talentgraph/adapters/memgraph"
)

func testSnapFiles() SnapFiles {
	return SnapFiles{
		Edges:    filepath.Join("testdata", "edges.csv"),
		Features: filepath.Join("testdata", "features.json"),
		Targets:  filepath.Join("testdata", "targets.csv"),
	}
}

func TestLoadSnap(t *testing.T) {
	store := memgraph.New()
	ctx := context.Background()

	summary, err := LoadSnap(ctx, store, testSnapFiles(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Users)
	assert.Equal(t, 3, summary.Edges)
	// users 1-3 form one component, user 4 is isolated
	assert.Equal(t, 2, summary.Components)
	assert.Equal(t, 3, summary.LargestComponent)

	attrs, err := store.UserAttributes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", attrs.Name)
	assert.Equal(t, []float64{3, 1, 4}, attrs.Features)

	nbs, err := store.Neighbors(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, nbs)
}

func TestLoadSnapPadsShortVectors(t *testing.T) {
	store := memgraph.New()
	ctx := context.Background()

	_, err := LoadSnap(ctx, store, testSnapFiles(), zerolog.Nop())
	require.NoError(t, err)

	attrs, err := store.UserAttributes(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 7, 0}, attrs.Features)
}

func TestLoadSnapDefaultsMissingFeaturesToZeros(t *testing.T) {
	store := memgraph.New()
	ctx := context.Background()

	_, err := LoadSnap(ctx, store, testSnapFiles(), zerolog.Nop())
	require.NoError(t, err)

	// user 4 is in targets but not in the features file
	attrs, err := store.UserAttributes(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, attrs.Features)
}

func TestLoadSnapFallsBackToIDName(t *testing.T) {
	store := memgraph.New()
	ctx := context.Background()

	_, err := LoadSnap(ctx, store, testSnapFiles(), zerolog.Nop())
	require.NoError(t, err)

	// user 3 has an empty name cell
	attrs, err := store.UserAttributes(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "3", attrs.Name)
}

func TestLoadSnapMissingFile(t *testing.T) {
	store := memgraph.New()

	files := testSnapFiles()
	files.Edges = filepath.Join("testdata", "missing.csv")

	_, err := LoadSnap(context.Background(), store, files, zerolog.Nop())
	assert.Error(t, err)
}
