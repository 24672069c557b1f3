package ai

import "context"

// DefaultDimensions is the embedding width of the entity_embeddings table.
const DefaultDimensions = 3072

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
}

// BatchEmbedder is implemented by clients that can embed several inputs in
// one request.
type BatchEmbedder interface {
	Embedder
	GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error)
}

// ModelMetrics contains performance metrics from AI model operations.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	Requests       int     `json:"requests"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// Add accumulates m into a copy of the receiver.
func (a ModelMetrics) Add(m ModelMetrics) ModelMetrics {
	a.InputTokens += m.InputTokens
	a.TotalTokens += m.TotalTokens
	a.DurationMs += m.DurationMs
	a.Requests += m.Requests
	if a.DurationMs > 0 {
		tps := float64(a.TotalTokens) * 1000.0 / float64(a.DurationMs)
		a.TokenPerSecond = float32(int(tps*100+0.5)) / 100
	}
	return a
}

// FitDimensions truncates or zero pads vec to dim.
func FitDimensions(vec []float32, dim int) []float32 {
	if dim <= 0 || len(vec) == dim {
		return vec
	}
	if len(vec) > dim {
		return vec[:dim]
	}
	padded := make([]float32, dim)
	copy(padded, vec)
	return padded
}
