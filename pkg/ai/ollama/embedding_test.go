package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"nomic","embeddings":[[0.5,0.25,0.125,1]],"prompt_eval_count":3}`))
	}))
	defer srv.Close()

	c, err := NewEmbeddingClient(NewEmbeddingClientParams{
		Model:      "nomic",
		BaseURL:    srv.URL,
		APIKey:     "secret",
		Dimensions: 2,
	})
	if err != nil {
		t.Fatalf("NewEmbeddingClient() error = %v", err)
	}

	got, err := c.GenerateEmbedding(context.Background(), []byte("Elena Brightforge"))
	if err != nil {
		t.Fatalf("GenerateEmbedding() error = %v", err)
	}
	if diff := cmp.Diff([]float32{0.5, 0.25}, got); diff != "" {
		t.Fatalf("embedding mismatch (-want +got):\n%s", diff)
	}

	blank, err := c.GenerateEmbedding(context.Background(), []byte(" "))
	if err != nil || len(blank) != 2 {
		t.Fatalf("blank input = %v, %v", blank, err)
	}
}
