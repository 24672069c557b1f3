// Package search resolves free-text names against the campaign tables
// through a composite fuzzy ranking backend.
package search

import (
	"context"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
)

// Params tune the composite ranking. Names follow the arguments of the
// search_fuzzy_combined database function.
type Params struct {
	FuzzyWeight         float64 `json:"fuzzyWeight" env:"FUZZY_WEIGHT"`
	SimilarityThreshold float64 `json:"similarityThreshold" env:"SIMILARITY_THRESHOLD"`
	MaxLevenshtein      int     `json:"maxLevenshtein" env:"MAX_LEVENSHTEIN"`
	PhoneticStrength    int     `json:"phoneticStrength" env:"PHONETIC_STRENGTH"`
	Limit               int     `json:"limit" env:"LIMIT"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		FuzzyWeight:         1.0,
		SimilarityThreshold: 0.3,
		MaxLevenshtein:      2,
		PhoneticStrength:    2,
		Limit:               10,
	}
}

type Option func(*Params)

func WithFuzzyWeight(w float64) Option {
	return func(p *Params) { p.FuzzyWeight = w }
}

func WithSimilarityThreshold(t float64) Option {
	return func(p *Params) { p.SimilarityThreshold = t }
}

func WithMaxLevenshtein(d int) Option {
	return func(p *Params) { p.MaxLevenshtein = d }
}

func WithPhoneticStrength(s int) Option {
	return func(p *Params) { p.PhoneticStrength = s }
}

func WithLimit(n int) Option {
	return func(p *Params) { p.Limit = n }
}

// WithParams replaces all parameters at once.
func WithParams(params Params) Option {
	return func(p *Params) { *p = params }
}

// Backend runs the composite ranking across all searchable tables and
// returns hits best first.
type Backend interface {
	SearchFuzzyCombined(ctx context.Context, term string, params Params) ([]common.SearchHit, error)
}

// Resolver is a pass-through to a Backend with defaults applied.
type Resolver struct {
	backend  Backend
	defaults Params
	log      *logger.Logger
}

// NewResolver creates a Resolver. opts change the defaults for every call.
func NewResolver(backend Backend, log *logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		backend:  backend,
		defaults: DefaultParams(),
		log:      log,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&r.defaults)
	}
	return r
}

// Defaults returns the parameters used when a call passes no options.
func (r *Resolver) Defaults() Params {
	return r.defaults
}

// Search returns backend hits for term in backend order, truncated to the
// limit. It never re-ranks.
func (r *Resolver) Search(ctx context.Context, term string, opts ...Option) ([]common.SearchHit, error) {
	term = util.NormalizeSearchTerm(term)
	if term == "" {
		return nil, apperror.New(apperror.CodeValidation, "search term must not be empty")
	}

	params := r.defaults
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&params)
	}

	hits, err := r.backend.SearchFuzzyCombined(ctx, term, params)
	if err != nil {
		return nil, apperror.WrapWithMetadata(apperror.CodeUpstreamQuery, "fuzzy search failed", map[string]string{"term": term}, err)
	}
	if params.Limit > 0 && len(hits) > params.Limit {
		hits = hits[:params.Limit]
	}

	r.log.Debug("Fuzzy search", "term", term, "hits", len(hits))
	return hits, nil
}
