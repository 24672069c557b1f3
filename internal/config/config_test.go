package config

import (
	"testing"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai/ollama"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got.SemanticEnabled() {
		t.Fatal("semantic tier enabled without adapter")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("AI_ADAPTER", "ollama")
	t.Setenv("AI_EMBED_MODEL", "nomic-embed-text")
	t.Setenv("AI_EMBED_DIM", "768")
	t.Setenv("SEARCH_SIMILARITY_THRESHOLD", "0.4")
	t.Setenv("SEARCH_LIMIT", "25")
	t.Setenv("GAP_URGENCY_TOO_MANY", "35")
	t.Setenv("GAP_MIN_CONFLICT_PARTICIPANTS", "3")
	t.Setenv("SUGGEST_CAP", "2")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	want.Port = "9090"
	want.RequestTimeout = 3 * time.Second
	want.AI.Adapter = "ollama"
	want.AI.EmbedModel = "nomic-embed-text"
	want.AI.EmbedDim = 768
	want.Search.SimilarityThreshold = 0.4
	want.Search.Limit = 25
	want.Gaps.UrgencyTooMany = 35
	want.Gaps.MinConflictParticipants = 3
	want.Suggest.Cap = 2
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{name: "unknown adapter", key: "AI_ADAPTER", value: "bedrock"},
		{name: "port", key: "PORT", value: "http"},
		{name: "timeout", key: "REQUEST_TIMEOUT", value: "-1s"},
		{name: "unparsable", key: "HYDRATE_PARALLEL", value: "many"},
		{name: "zero parallel", key: "HYDRATE_PARALLEL", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%s succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestEmbedder(t *testing.T) {
	cfg := Default()
	emb, err := cfg.Embedder(logger.Nop())
	if err != nil || emb != nil {
		t.Fatalf("Embedder() = %v, %v; want nil, nil without adapter", emb, err)
	}

	cfg.AI.Adapter = AdapterOllama
	cfg.AI.EmbedURL = "http://localhost:11434"
	emb, err = cfg.Embedder(logger.Nop())
	if err != nil {
		t.Fatalf("Embedder() error = %v", err)
	}
	if _, ok := emb.(*ai.CachedEmbedder); !ok {
		t.Fatalf("Embedder() = %T, want cached", emb)
	}

	cfg.EmbedCacheSize = 0
	emb, err = cfg.Embedder(logger.Nop())
	if err != nil {
		t.Fatalf("Embedder() error = %v", err)
	}
	if _, ok := emb.(*ollama.EmbeddingClient); !ok {
		t.Fatalf("Embedder() = %T, want ollama client", emb)
	}

	cfg.AI.Adapter = "bedrock"
	if _, err := cfg.Embedder(logger.Nop()); err == nil {
		t.Fatal("expected error for unknown adapter")
	}
}
