package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mpelletier/talentgraph/graph"
	"github.com/mpelletier/talentgraph/vectormath"
)

// embedBatchSize bounds how many user embeddings are written between log
// lines.
const embedBatchSize = 1000

// ProjectUserEmbeddings computes an embedding for every user carrying a raw
// feature vector and persists it, so user and job embeddings live in the
// same space. Users already holding an embedding are recomputed: the pass is
// idempotent.
func ProjectUserEmbeddings(ctx context.Context, store graph.Store, w graph.Writer, projector vectormath.Projector, log zerolog.Logger) (int, error) {
	users, err := store.UsersWithFeatures(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users with features: %w", err)
	}

	done := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		embedding := projector.Project(u.Features)
		if err := w.SetUserEmbedding(ctx, u.ID, embedding); err != nil {
			return done, fmt.Errorf("set embedding for user %d: %w", u.ID, err)
		}
		done++
		if done%embedBatchSize == 0 {
			log.Info().Int("users", done).Msg("embedding projection progress")
		}
	}

	log.Info().Int("users", done).Msg("embedding projection complete")
	return done, nil
}
