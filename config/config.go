// Package config loads service configuration from layered sources with
// koanf: built-in defaults, then an optional YAML file, then environment
// variables. Environment wins over file, file wins over defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/talentgraph/config.yaml",
	"/etc/talentgraph/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces the environment variables this service reads, so a
// shared host does not leak unrelated settings into the config.
const envPrefix = "TALENTGRAPH_"

// Config is the root configuration for the service and the loaders.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Store      StoreConfig      `koanf:"store"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Pinecone   PineconeConfig   `koanf:"pinecone"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects and configures the graph store backend.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`
	// Path is the Badger database directory. Ignored for the memory backend.
	Path string `koanf:"path"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	Limit        int `koanf:"limit"`
	MaxHops      int `koanf:"max_hops"`
	EmbeddingDim int `koanf:"embedding_dim"`
}

// EmbeddingsConfig selects the embedding provider used by the loaders.
type EmbeddingsConfig struct {
	// Provider is "voyage" or "openai".
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"api_key"`
}

// PineconeConfig configures the optional external job index.
type PineconeConfig struct {
	Enabled   bool   `koanf:"enabled"`
	APIKey    string `koanf:"api_key"`
	Host      string `koanf:"host"`
	Namespace string `koanf:"namespace"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend: "badger",
			Path:    "/data/talentgraph",
		},
		Recommend: RecommendConfig{
			Limit:        10,
			MaxHops:      6,
			EmbeddingDim: 384,
		},
		Embeddings: EmbeddingsConfig{
			Provider: "voyage",
		},
		Pinecone: PineconeConfig{
			Enabled:   false,
			Namespace: "jobs",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// TALENTGRAPH_* environment variables, in that precedence order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the process cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the badger backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want memory or badger)", c.Store.Backend)
	}

	switch c.Embeddings.Provider {
	case "voyage", "openai":
	default:
		return fmt.Errorf("unknown embeddings.provider %q (want voyage or openai)", c.Embeddings.Provider)
	}

	if c.Recommend.Limit <= 0 {
		return fmt.Errorf("recommend.limit must be positive, got %d", c.Recommend.Limit)
	}
	if c.Recommend.MaxHops <= 0 {
		return fmt.Errorf("recommend.max_hops must be positive, got %d", c.Recommend.MaxHops)
	}
	if c.Recommend.EmbeddingDim <= 0 {
		return fmt.Errorf("recommend.embedding_dim must be positive, got %d", c.Recommend.EmbeddingDim)
	}

	if c.Pinecone.Enabled && c.Pinecone.Host == "" {
		return fmt.Errorf("pinecone.host is required when pinecone.enabled is true")
	}

	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// The first underscore after the prefix separates the section from the key:
//
//   - TALENTGRAPH_SERVER_ADDR -> server.addr
//   - TALENTGRAPH_STORE_BACKEND -> store.backend
//   - TALENTGRAPH_RECOMMEND_MAX_HOPS -> recommend.max_hops
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}
