// Command loadjobs reads a JSONL dump of job postings, embeds each posting
// and writes the jobs to the graph store, optionally mirroring them to a
// Pinecone index.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mpelletier/talentgraph/adapters"
	"github.com/mpelletier/talentgraph/adapters/badgergraph"
	"github.com/mpelletier/talentgraph/config"
	"github.com/mpelletier/talentgraph/ingest"
	"github.com/mpelletier/talentgraph/logging"
)

func main() {
	_ = godotenv.Load()

	path := flag.String("jobs", "job_listings.jsonl", "job postings JSONL file")
	limit := flag.Int("limit", 5000, "max postings to load, 0 for all")
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

	client, err := newEmbeddingClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build embedding client")
	}

	var upserter ingest.JobUpserter
	if cfg.Pinecone.Enabled {
		index, err := adapters.NewPineconeJobIndex(optional(cfg.Pinecone.APIKey), optional(cfg.Pinecone.Host), cfg.Pinecone.Namespace)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to pinecone")
		}
		upserter = index
	}

	store, db, err := badgergraph.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open graph store")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := ingest.LoadJobs(ctx, store, client, upserter, *path, *limit, log)
	if err != nil {
		log.Fatal().Err(err).Msg("job load failed")
	}

	log.Info().Int("jobs", summary.Jobs).Int("embedded", summary.Embedded).Msg("done")
}

func newEmbeddingClient(cfg *config.Config) (ingest.EmbeddingClient, error) {
	if cfg.Embeddings.Provider == "openai" {
		return adapters.NewOpenAIEmbeddingAdapter(optional(cfg.Embeddings.APIKey), cfg.Recommend.EmbeddingDim)
	}
	return adapters.NewVoyageEmbeddingAdapter(optional(cfg.Embeddings.APIKey), cfg.Recommend.EmbeddingDim)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
