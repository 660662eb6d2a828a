// Command loadsnap loads a SNAP musae dataset (edges, features, targets)
// into the graph store.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mpelletier/talentgraph/adapters/badgergraph"
	"github.com/mpelletier/talentgraph/config"
	"github.com/mpelletier/talentgraph/ingest"
	"github.com/mpelletier/talentgraph/logging"
)

func main() {
	_ = godotenv.Load()

	edges := flag.String("edges", "musae_git_edges.csv", "edges CSV (id_1,id_2)")
	features := flag.String("features", "musae_git_features.json", "features JSON (id -> vector)")
	targets := flag.String("targets", "musae_git_target.csv", "targets CSV (id,name)")
	flag.Parse()

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

	summary, err := ingest.LoadSnap(ctx, store, ingest.SnapFiles{
		Edges:    *edges,
		Features: *features,
		Targets:  *targets,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("snap load failed")
	}

	log.Info().Int("users", summary.Users).Int("edges", summary.Edges).Msg("done")
}
