package ai

import (
	"context"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEmbedder memoises query embeddings. Search terms repeat a lot
// during a session, and every miss is a paid round trip.
type CachedEmbedder struct {
	next  Embedder
	cache *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps next with an LRU of the given size.
func NewCachedEmbedder(next Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{next: next, cache: cache}, nil
}

// GenerateEmbedding returns the cached vector for input or asks the
// wrapped embedder. Keys are case and whitespace normalised.
func (c *CachedEmbedder) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	key := strings.ToLower(strings.Join(strings.Fields(string(input)), " "))
	if vec, ok := c.cache.Get(key); ok {
		return slices.Clone(vec), nil
	}
	vec, err := c.next.GenerateEmbedding(ctx, input)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, slices.Clone(vec))
	return vec, nil
}

// Len reports the number of cached entries.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}
