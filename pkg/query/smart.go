// Package query implements tiered entity resolution: lexical fuzzy search
// first, embedding nearest neighbours when that finds nothing.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the number of results SmartSearch returns when the
// caller passes no limit.
const DefaultLimit = 5

// Method names the tier that produced a Result.
type Method string

const (
	MethodFuzzy    Method = "fuzzy"
	MethodSemantic Method = "semantic"
	MethodNone     Method = "none"
)

// Result is the outcome of SmartSearch.
type Result struct {
	Method  Method              `json:"method"`
	Results []common.Projection `json:"results"`
	Query   string              `json:"query"`
}

// Err reports a degraded result: nil unless no tier found anything.
func (r Result) Err() error {
	if r.Method != MethodNone {
		return nil
	}
	return apperror.WithMetadata(apperror.CodeDegradedResult, "no fuzzy or semantic match", map[string]string{"query": r.Query})
}

// SearchableTypes are the entity types SmartSearch accepts.
var SearchableTypes = []string{common.TableNPCs, common.TableFactions, common.TableQuests}

// Searcher runs the tiers. The semantic tier is active only when both an
// embedder and a vector index were configured.
type Searcher struct {
	resolver *search.Resolver
	hydrator store.Hydrator
	embedder ai.Embedder
	index    store.VectorIndex

	log      *logger.Logger
	trace    Tracer
	parallel int
	retries  int
}

type Option func(*Searcher)

// WithSemantic enables the embedding tier.
func WithSemantic(embedder ai.Embedder, index store.VectorIndex) Option {
	return func(s *Searcher) {
		s.embedder = embedder
		s.index = index
	}
}

func WithTracer(trace Tracer) Option {
	return func(s *Searcher) {
		s.trace = trace
	}
}

// WithHydrationParallelism bounds concurrent hydration lookups.
func WithHydrationParallelism(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.parallel = n
		}
	}
}

// WithEmbedRetries sets how often a failed query embedding is attempted.
func WithEmbedRetries(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.retries = n
		}
	}
}

func NewSearcher(resolver *search.Resolver, hydrator store.Hydrator, log *logger.Logger, opts ...Option) *Searcher {
	s := &Searcher{
		resolver: resolver,
		hydrator: hydrator,
		log:      log,
		parallel: 4,
		retries:  2,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// SemanticEnabled reports whether the embedding tier is configured.
func (s *Searcher) SemanticEnabled() bool {
	return s.embedder != nil && s.index != nil
}

// SmartSearch resolves query to entities of entityType. Hits that cannot be
// hydrated are logged and dropped. A failure of the semantic tier degrades
// to MethodNone; only validation and fuzzy backend errors are returned.
func (s *Searcher) SmartSearch(ctx context.Context, query string, entityType string, limit int) (Result, error) {
	query = strings.TrimSpace(query)
	res := Result{Method: MethodNone, Results: []common.Projection{}, Query: query}

	if query == "" {
		return res, apperror.New(apperror.CodeValidation, "query must not be empty")
	}
	if !isSearchable(entityType) {
		return res, apperror.WithMetadata(apperror.CodeValidation, fmt.Sprintf("unsupported entity type %q", entityType), map[string]string{"entityType": entityType})
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	record(s.trace, TraceEvent{Kind: TraceEventEntityType, EntityType: entityType})

	hits, err := s.resolver.Search(ctx, query)
	if err != nil {
		return res, err
	}
	var filtered []common.SearchHit
	for _, h := range hits {
		if h.Table == entityType {
			filtered = append(filtered, h)
		}
	}
	record(s.trace, TraceEvent{Kind: TraceEventFuzzyHits, EntityIDs: hitIDs(filtered)})

	projections := s.hydrateAll(ctx, filtered)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if len(projections) > 0 {
		res.Method = MethodFuzzy
		res.Results = truncate(projections, limit)
		s.finish(res)
		return res, nil
	}

	if s.SemanticEnabled() {
		projections, err := s.semantic(ctx, query, entityType, limit)
		if err != nil {
			s.log.Warn("Semantic search failed", "query", query, "type", entityType, "err", err)
		} else if len(projections) > 0 {
			res.Method = MethodSemantic
			res.Results = truncate(projections, limit)
			s.finish(res)
			return res, nil
		}
	}

	s.finish(res)
	return res, nil
}

func (s *Searcher) finish(res Result) {
	record(s.trace, TraceEvent{Kind: TraceEventMethod, Method: res.Method})
	s.log.Debug("Smart search", "query", res.Query, "method", res.Method, "results", len(res.Results))
}

func (s *Searcher) semantic(ctx context.Context, query, entityType string, limit int) ([]common.Projection, error) {
	vec, err := util.RetryWithContext(ctx, s.retries, func(ctx context.Context) ([]float32, error) {
		return s.embedder.GenerateEmbedding(ctx, []byte(query))
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	neighbors, err := s.index.Nearest(ctx, entityType, vec, limit*2)
	if err != nil {
		return nil, fmt.Errorf("nearest %s: %w", entityType, err)
	}

	hits := make([]common.SearchHit, len(neighbors))
	distance := make(map[int64]float64, len(neighbors))
	for i, n := range neighbors {
		hits[i] = n.Hit
		distance[n.Hit.ID] = n.Distance
	}
	record(s.trace, TraceEvent{Kind: TraceEventSemanticHits, EntityIDs: hitIDs(hits)})

	projections := s.hydrateAll(ctx, hits)
	for i := range projections {
		projections[i].Distance = distance[projections[i].ID]
	}
	return projections, ctx.Err()
}

// hydrateAll hydrates hits concurrently and returns the successful
// projections in hit order.
func (s *Searcher) hydrateAll(ctx context.Context, hits []common.SearchHit) []common.Projection {
	if len(hits) == 0 {
		return nil
	}

	slots := make([]*common.Projection, len(hits))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallel)
	for i := range hits {
		idx := i
		hit := hits[i]
		eg.Go(func() error {
			p, err := s.hydrator.Hydrate(ectx, hit)
			if err != nil {
				s.log.Warn("Dropping search hit", "table", hit.Table, "id", hit.ID, "name", hit.Name, "err", err)
				record(s.trace, TraceEvent{Kind: TraceEventDroppedEntities, EntityIDs: []int64{hit.ID}, Error: err.Error()})
				return nil
			}
			slots[idx] = &p
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]common.Projection, 0, len(hits))
	for _, p := range slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func isSearchable(entityType string) bool {
	for _, t := range SearchableTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

func hitIDs(hits []common.SearchHit) []int64 {
	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

func truncate(p []common.Projection, limit int) []common.Projection {
	if len(p) > limit {
		return p[:limit]
	}
	return p
}
