package openai

import (
	"sync"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// EmbeddingClient generates query and document embeddings through any
// OpenAI compatible embeddings endpoint.
//
// An EmbeddingClient should be created using NewEmbeddingClient.
type EmbeddingClient struct {
	model      string
	dimensions int
	timeout    time.Duration

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *openai.Client
}

// NewEmbeddingClientParams configures an EmbeddingClient.
//
// BaseURL may be empty for api.openai.com. Dimensions defaults to
// ai.DefaultDimensions, MaxConcurrentRequests to 4 and Timeout to a minute.
type NewEmbeddingClientParams struct {
	Model   string
	BaseURL string
	APIKey  string

	Dimensions            int
	MaxConcurrentRequests int64
	Timeout               time.Duration
}

// NewEmbeddingClient creates an EmbeddingClient.
//
// Example:
//
//	client := openai.NewEmbeddingClient(openai.NewEmbeddingClientParams{
//		Model:  "text-embedding-3-large",
//		APIKey: os.Getenv("AI_EMBED_KEY"),
//	})
func NewEmbeddingClient(params NewEmbeddingClientParams) *EmbeddingClient {
	dim := params.Dimensions
	if dim <= 0 {
		dim = ai.DefaultDimensions
	}
	parallel := params.MaxConcurrentRequests
	if parallel <= 0 {
		parallel = 4
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(options...)

	return &EmbeddingClient{
		model:      params.Model,
		dimensions: dim,
		timeout:    timeout,
		reqLock:    semaphore.NewWeighted(parallel),
		Client:     &client,
	}
}

// GetMetrics returns the accumulated usage since the last reset.
func (c *EmbeddingClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

// ResetMetrics clears all accumulated usage.
func (c *EmbeddingClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

func (c *EmbeddingClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = c.metrics.Add(m)
}
