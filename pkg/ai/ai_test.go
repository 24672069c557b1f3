package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) GenerateEmbedding(_ context.Context, input []byte) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(input)), 1}, nil
}

func TestCachedEmbedder_HitsNormalisedKeys(t *testing.T) {
	next := &countingEmbedder{}
	c, err := NewCachedEmbedder(next, 2)
	if err != nil {
		t.Fatalf("NewCachedEmbedder() error = %v", err)
	}

	first, _ := c.GenerateEmbedding(context.Background(), []byte("Iron  Guild"))
	second, _ := c.GenerateEmbedding(context.Background(), []byte(" iron guild "))

	if next.calls != 1 {
		t.Fatalf("calls = %d, want 1", next.calls)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached vector differs (-first +second):\n%s", diff)
	}

	second[0] = 99
	third, _ := c.GenerateEmbedding(context.Background(), []byte("iron guild"))
	if third[0] == 99 {
		t.Fatal("cache returned a shared slice")
	}
}

func TestCachedEmbedder_DoesNotCacheErrors(t *testing.T) {
	next := &countingEmbedder{err: errors.New("rate limited")}
	c, _ := NewCachedEmbedder(next, 0)

	for range 2 {
		if _, err := c.GenerateEmbedding(context.Background(), []byte("x")); err == nil {
			t.Fatal("expected error")
		}
	}
	if next.calls != 2 || c.Len() != 0 {
		t.Fatalf("calls = %d, len = %d", next.calls, c.Len())
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		dim  int
		want []float32
	}{
		{name: "exact", in: []float32{1, 2}, dim: 2, want: []float32{1, 2}},
		{name: "truncate", in: []float32{1, 2, 3}, dim: 2, want: []float32{1, 2}},
		{name: "pad", in: []float32{1}, dim: 3, want: []float32{1, 0, 0}},
		{name: "no dim", in: []float32{1}, dim: 0, want: []float32{1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, FitDimensions(tc.in, tc.dim)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModelMetrics_Add(t *testing.T) {
	m := ModelMetrics{}.Add(ModelMetrics{InputTokens: 10, TotalTokens: 10, DurationMs: 500, Requests: 1})
	m = m.Add(ModelMetrics{InputTokens: 5, TotalTokens: 5, DurationMs: 500, Requests: 1})
	if m.TotalTokens != 15 || m.Requests != 2 || m.TokenPerSecond != 15 {
		t.Fatalf("metrics = %+v", m)
	}
}
