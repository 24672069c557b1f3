// Package campaign assembles the world from a store and runs gap analysis,
// faction suggestions and entity search over it for one request.
package campaign

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/query"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds world assembly plus analysis of one request.
const DefaultTimeout = 10 * time.Second

// Collection names one read of the WorldReader.
type Collection string

const (
	CollectionFactions  Collection = "factions"
	CollectionNPCs      Collection = "npcs"
	CollectionQuests    Collection = "quests"
	CollectionConflicts Collection = "conflicts"
	CollectionRegions   Collection = "regions"
)

// AllCollections lists every collection in load order.
var AllCollections = []Collection{
	CollectionFactions,
	CollectionNPCs,
	CollectionQuests,
	CollectionConflicts,
	CollectionRegions,
}

// Needs returns the collections the analyzer of domain reads.
func Needs(domain gaps.Domain) []Collection {
	switch domain {
	case gaps.DomainFactions:
		return []Collection{CollectionFactions, CollectionQuests, CollectionConflicts, CollectionRegions}
	case gaps.DomainNPCs:
		return AllCollections
	case gaps.DomainQuests:
		return []Collection{CollectionQuests}
	case gaps.DomainConflicts:
		return []Collection{CollectionFactions, CollectionConflicts}
	}
	return nil
}

// Service is safe for concurrent use. It keeps no per-request state.
type Service struct {
	reader     store.WorldReader
	searcher   *query.Searcher
	resolver   *search.Resolver
	generator  *suggest.Generator
	thresholds gaps.Thresholds
	timeout    time.Duration
	log        *logger.Logger
}

type Option func(*Service)

// WithTimeout sets the deadline of one request. Zero or less keeps the
// default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithThresholds(t gaps.Thresholds) Option {
	return func(s *Service) {
		s.thresholds = t
	}
}

// WithGenerator replaces the suggestion generator.
func WithGenerator(g *suggest.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithSearch enables entity search and the name conflict check of faction
// suggestions.
func WithSearch(resolver *search.Resolver, searcher *query.Searcher) Option {
	return func(s *Service) {
		s.resolver = resolver
		s.searcher = searcher
	}
}

func New(reader store.WorldReader, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		reader:     reader,
		generator:  suggest.NewGenerator(suggest.DefaultConfig(), log),
		thresholds: gaps.DefaultThresholds(),
		timeout:    DefaultTimeout,
		log:        log,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// LoadWorld reads the given collections concurrently and returns once all
// of them are loaded. Any failed read fails the whole call with a
// CodeUpstreamQuery error carrying args as metadata. No collections means
// all of them.
func (s *Service) LoadWorld(ctx context.Context, args map[string]string, collections ...Collection) (common.World, error) {
	if len(collections) == 0 {
		collections = AllCollections
	}
	for _, c := range collections {
		if !slices.Contains(AllCollections, c) {
			return common.World{}, apperror.WithMetadata(apperror.CodeValidation, fmt.Sprintf("unknown collection %q", c), args)
		}
	}

	var w common.World
	eg, gCtx := errgroup.WithContext(ctx)
	for _, c := range collections {
		switch c {
		case CollectionFactions:
			eg.Go(func() (err error) {
				w.Factions, err = s.reader.Factions(gCtx)
				return read(c, err)
			})
		case CollectionNPCs:
			eg.Go(func() (err error) {
				w.NPCs, err = s.reader.NPCs(gCtx)
				return read(c, err)
			})
		case CollectionQuests:
			eg.Go(func() (err error) {
				w.Quests, err = s.reader.Quests(gCtx)
				return read(c, err)
			})
		case CollectionConflicts:
			eg.Go(func() (err error) {
				w.Conflicts, err = s.reader.Conflicts(gCtx)
				return read(c, err)
			})
		case CollectionRegions:
			eg.Go(func() (err error) {
				w.Regions, err = s.reader.Regions(gCtx)
				return read(c, err)
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return common.World{}, s.upstream(err, args)
	}
	return w, nil
}

func read(c Collection, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", c, err)
	}
	return nil
}

// upstream wraps a context assembly failure with a request id and logs it.
func (s *Service) upstream(err error, args map[string]string) error {
	meta := make(map[string]string, len(args)+1)
	for k, v := range args {
		meta[k] = v
	}
	id, idErr := gonanoid.New()
	if idErr != nil {
		id = strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	meta["requestId"] = id

	s.log.Error("Failed to assemble campaign context", "requestId", id, "args", args, "err", err)
	return apperror.WrapWithMetadata(apperror.CodeUpstreamQuery, "failed to assemble campaign context", meta, err)
}

func (s *Service) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Gaps loads what the analyzer of domain needs and runs it.
func (s *Service) Gaps(ctx context.Context, domain string) (gaps.Report, error) {
	d, err := gaps.ParseDomain(domain)
	if err != nil {
		return gaps.Report{}, err
	}
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	w, err := s.LoadWorld(ctx, map[string]string{"domain": string(d)}, Needs(d)...)
	if err != nil {
		return gaps.Report{}, err
	}
	return gaps.Analyze(d, w, s.thresholds)
}

// AllGaps runs every analyzer over one world.
func (s *Service) AllGaps(ctx context.Context) ([]gaps.Report, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	w, err := s.LoadWorld(ctx, map[string]string{"domain": "all"})
	if err != nil {
		return nil, err
	}
	reports := make([]gaps.Report, 0, len(gaps.Domains))
	for _, d := range gaps.Domains {
		r, err := gaps.Analyze(d, w, s.thresholds)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// FactionContext is everything a faction creation prompt needs.
type FactionContext struct {
	Hints       suggest.Hints      `json:"hints"`
	Suggestions suggest.Set        `json:"suggestions"`
	Gaps        gaps.Report        `json:"gaps"`
	NameMatches []common.SearchHit `json:"nameMatches"`
}

// SuggestFaction validates hints, analyses faction gaps and derives
// suggestions. When search is configured, existing factions with a name
// close to the proposed one are listed as NameMatches.
func (s *Service) SuggestFaction(ctx context.Context, hints suggest.Hints) (FactionContext, error) {
	if err := hints.Validate(); err != nil {
		return FactionContext{}, err
	}
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	args := map[string]string{"name": hints.Name}
	w, err := s.LoadWorld(ctx, args, Needs(gaps.DomainFactions)...)
	if err != nil {
		return FactionContext{}, err
	}
	report := gaps.AnalyzeFactions(w, s.thresholds)

	set, err := s.generator.Suggest(hints, suggest.PoolFromWorld(w), report)
	if err != nil {
		return FactionContext{}, err
	}

	out := FactionContext{Hints: hints, Suggestions: set, Gaps: report, NameMatches: []common.SearchHit{}}
	if s.resolver != nil {
		hits, err := s.resolver.Search(ctx, hints.Name)
		if err != nil {
			return FactionContext{}, err
		}
		for _, h := range hits {
			if h.Table == common.TableFactions {
				out.NameMatches = append(out.NameMatches, h)
			}
		}
	}
	return out, nil
}

// Search runs the tiered entity search.
func (s *Service) Search(ctx context.Context, q, entityType string, limit int) (query.Result, error) {
	if s.searcher == nil {
		return query.Result{}, apperror.New(apperror.CodeInternal, "search is not configured")
	}
	ctx, cancel := s.deadline(ctx)
	defer cancel()
	return s.searcher.SmartSearch(ctx, q, entityType, limit)
}
