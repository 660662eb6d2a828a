// Command embedusers projects every stored user feature vector into the job
// embedding space, so users and jobs can be compared with cosine similarity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mpelletier/talentgraph/adapters/badgergraph"
	"github.com/mpelletier/talentgraph/config"
	"github.com/mpelletier/talentgraph/ingest"
	"github.com/mpelletier/talentgraph/logging"
	"github.com/mpelletier/talentgraph/vectormath"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load configuration")
	}

	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	store, db, err := badgergraph.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open graph store")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projector := vectormath.Projector{
		Dim:    cfg.Recommend.EmbeddingDim,
		Policy: vectormath.NormL2,
	}

	n, err := ingest.ProjectUserEmbeddings(ctx, store, store, projector, log)
	if err != nil {
		log.Fatal().Err(err).Msg("embedding projection failed")
	}

	log.Info().Int("users", n).Msg("done")
}
