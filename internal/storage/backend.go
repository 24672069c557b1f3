package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/config"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/campaign"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/leaselock"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/query"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store/memory"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"
	pgstore "github.com/MMMikeM/DND-Campaign-sub000/pkg/store/pgx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// ErrNoBackend is returned by Open when neither DATA_FILE nor DATABASE_URL
// is set.
var ErrNoBackend = errors.New("no campaign backend configured: set DATA_FILE or DATABASE_URL")

// Store is everything the engine reads from and writes embeddings to.
type Store interface {
	store.WorldReader
	store.Hydrator
	store.VectorIndex
	store.DocumentSource
	search.Backend
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*pgstore.Storage)(nil)
)

// Backend is an opened Store. Close releases its connections.
type Backend struct {
	Store Store
	Kind  string

	lease *leaselock.Client
	close func()
}

func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// Open opens the in memory store when cfg.DataFile is set and the Postgres
// store otherwise.
func Open(ctx context.Context, cfg config.Config, log *logger.Logger) (*Backend, error) {
	switch {
	case cfg.DataFile != "":
		mem, err := memory.LoadFile(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.DataFile, err)
		}
		w := mem.World()
		log.Info("Loaded campaign data", "file", cfg.DataFile, "factions", len(w.Factions), "npcs", len(w.NPCs), "quests", len(w.Quests))
		return &Backend{Store: mem, Kind: "memory"}, nil

	case cfg.DatabaseURL != "":
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return pgxvec.RegisterTypes(ctx, conn)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		log.Info("Connected to database", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database)
		return &Backend{
			Store: pgstore.New(pool, pgstore.WithLogger(log)),
			Kind:  "postgres",
			lease: leaselock.New(pool, log),
			close: pool.Close,
		}, nil
	}
	return nil, ErrNoBackend
}

// Service wires a campaign service over b. A nil embedder disables the
// semantic search tier.
func (b *Backend) Service(cfg config.Config, embedder ai.Embedder, log *logger.Logger) *campaign.Service {
	resolver := search.NewResolver(b.Store, log, search.WithParams(cfg.Search))

	opts := []query.Option{
		query.WithHydrationParallelism(cfg.HydrateParallel),
		query.WithEmbedRetries(cfg.EmbedRetries),
	}
	if embedder != nil {
		opts = append(opts, query.WithSemantic(embedder, b.Store))
	}
	searcher := query.NewSearcher(resolver, b.Store, log, opts...)

	return campaign.New(b.Store, log,
		campaign.WithTimeout(cfg.RequestTimeout),
		campaign.WithThresholds(cfg.Gaps),
		campaign.WithGenerator(suggest.NewGenerator(cfg.Suggest, log)),
		campaign.WithSearch(resolver, searcher),
	)
}

// IndexLease is the lease name held while embeddings are rebuilt.
const IndexLease = "entity_embeddings"

// Index embeds every document of the store. The memory store keeps
// vectors only for the life of the process, so callers index it at start.
// On Postgres only one indexer runs at a time; a second one fails with
// leaselock.ErrBusy.
func (b *Backend) Index(ctx context.Context, cfg config.Config, embedder ai.Embedder, log *logger.Logger) (int, error) {
	if embedder == nil {
		return 0, errors.New("indexing requires AI_ADAPTER")
	}
	if b.lease == nil {
		return store.IndexEmbeddings(ctx, b.Store, b.Store, embedder, cfg.IndexBatch, log)
	}

	var n int
	err := b.lease.Run(ctx, IndexLease, leaselock.Options{TTL: 2 * time.Minute}, func(ctx context.Context) error {
		var err error
		n, err = store.IndexEmbeddings(ctx, b.Store, b.Store, embedder, cfg.IndexBatch, log)
		return err
	})
	return n, err
}
