// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai/ollama"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai/openai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"

	"github.com/go-playground/validator"
)

const (
	AdapterOpenAI = "openai"
	AdapterOllama = "ollama"
)

// AI configures the embedding client of the semantic search tier. An
// empty Adapter disables the tier.
type AI struct {
	Adapter     string `env:"ADAPTER" validate:"omitempty,oneof=openai ollama"`
	EmbedModel  string `env:"EMBED_MODEL"`
	EmbedURL    string `env:"EMBED_URL"`
	EmbedKey    string `env:"EMBED_KEY"`
	EmbedDim    int    `env:"EMBED_DIM" envDefault:"3072" validate:"min=1"`
	ParallelReq int64  `env:"PARALLEL_REQ" envDefault:"4" validate:"min=1"`
}

type Config struct {
	Debug   bool   `env:"DEBUG"`
	LogJSON bool   `env:"LOG_JSON"`
	Port    string `env:"PORT" envDefault:"8080" validate:"required,numeric"`

	// DatabaseURL selects the Postgres store. DataFile selects the in
	// memory store and wins when both are set.
	DatabaseURL string `env:"DATABASE_URL"`
	DataFile    string `env:"DATA_FILE"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	AI              AI  `envPrefix:"AI_"`
	EmbedCacheSize  int `env:"EMBED_CACHE_SIZE" envDefault:"256" validate:"min=0"`
	HydrateParallel int `env:"HYDRATE_PARALLEL" envDefault:"4" validate:"min=1"`
	EmbedRetries    int `env:"EMBED_RETRIES" envDefault:"2" validate:"min=1"`
	IndexBatch      int `env:"EMBED_INDEX_BATCH" envDefault:"32" validate:"min=1"`

	Search  search.Params `envPrefix:"SEARCH_"`
	Gaps    gaps.Thresholds
	Suggest suggest.Config
}

// Default returns the configuration used when the environment is empty.
func Default() Config {
	return Config{
		Port:            "8080",
		RequestTimeout:  10 * time.Second,
		AI:              AI{EmbedDim: ai.DefaultDimensions, ParallelReq: 4},
		EmbedCacheSize:  256,
		HydrateParallel: 4,
		EmbedRetries:    2,
		IndexBatch:      32,
		Search:          search.DefaultParams(),
		Gaps:            gaps.DefaultThresholds(),
		Suggest:         suggest.DefaultConfig(),
	}
}

var validate = validator.New()

// Load overlays the environment onto Default and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if err := util.ParseEnvInto(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid configuration: REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// SemanticEnabled reports whether an embedding adapter is configured.
func (c Config) SemanticEnabled() bool {
	return c.AI.Adapter != ""
}

// Embedder builds the configured embedding client wrapped in an LRU cache.
// It returns nil when the semantic tier is disabled.
func (c Config) Embedder(log *logger.Logger) (ai.Embedder, error) {
	var client ai.Embedder
	switch c.AI.Adapter {
	case "":
		return nil, nil
	case AdapterOllama:
		oc, err := ollama.NewEmbeddingClient(ollama.NewEmbeddingClientParams{
			Model:                 c.AI.EmbedModel,
			BaseURL:               c.AI.EmbedURL,
			APIKey:                c.AI.EmbedKey,
			Dimensions:            c.AI.EmbedDim,
			MaxConcurrentRequests: c.AI.ParallelReq,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		client = oc
	case AdapterOpenAI:
		client = openai.NewEmbeddingClient(openai.NewEmbeddingClientParams{
			Model:                 c.AI.EmbedModel,
			BaseURL:               c.AI.EmbedURL,
			APIKey:                c.AI.EmbedKey,
			Dimensions:            c.AI.EmbedDim,
			MaxConcurrentRequests: c.AI.ParallelReq,
		})
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", c.AI.Adapter)
	}

	log.Info("Semantic search enabled", "adapter", c.AI.Adapter, "model", c.AI.EmbedModel, "dimensions", c.AI.EmbedDim)
	if c.EmbedCacheSize == 0 {
		return client, nil
	}
	cached, err := ai.NewCachedEmbedder(client, c.EmbedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return cached, nil
}
