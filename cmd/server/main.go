// Command server runs the recommendation HTTP service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	recommend "github.com/mpelletier/talentgraph"
	"github.com/mpelletier/talentgraph/adapters"
	"github.com/mpelletier/talentgraph/adapters/badgergraph"
	"github.com/mpelletier/talentgraph/adapters/memgraph"
	"github.com/mpelletier/talentgraph/config"
	"github.com/mpelletier/talentgraph/graph"
	"github.com/mpelletier/talentgraph/logging"
	"github.com/mpelletier/talentgraph/server"
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

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open graph store")
	}
	defer closeStore()

	engineCfg := recommend.Config{
		Limit:   cfg.Recommend.Limit,
		MaxHops: cfg.Recommend.MaxHops,
	}
	if cfg.Pinecone.Enabled {
		index, err := adapters.NewPineconeJobIndex(optional(cfg.Pinecone.APIKey), optional(cfg.Pinecone.Host), cfg.Pinecone.Namespace)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to pinecone")
		}
		engineCfg.JobIndex = index
		log.Info().Str("namespace", cfg.Pinecone.Namespace).Msg("pinecone job index enabled")
	}

	engine := recommend.New(store, engineCfg, log)
	srv := server.New(engine, store, log)
	srv.StoreBackend = cfg.Store.Backend

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func openStore(cfg *config.Config, log zerolog.Logger) (graph.Store, func(), error) {
	if cfg.Store.Backend == "memory" {
		log.Warn().Msg("using in-memory store, data is not persisted")
		return memgraph.New(), func() {}, nil
	}

	store, db, err := badgergraph.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("path", cfg.Store.Path).Msg("badger store opened")
	return store, func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close badger store")
		}
	}, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
