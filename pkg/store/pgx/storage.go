// Package pgx reads the campaign world from PostgreSQL and keeps entity
// embeddings in pgvector.
package pgx

import (
	"context"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// Storage implements the world, search, hydration and vector interfaces
// on top of a pgx connection or pool. Register pgvector types on the
// connection before using the vector methods.
type Storage struct {
	conn pgxIConn
	log  *logger.Logger
}

var (
	_ store.WorldReader    = (*Storage)(nil)
	_ store.Hydrator       = (*Storage)(nil)
	_ store.VectorIndex    = (*Storage)(nil)
	_ store.DocumentSource = (*Storage)(nil)
)

type StorageOption func(*Storage)

func WithLogger(log *logger.Logger) StorageOption {
	return func(s *Storage) {
		s.log = log
	}
}

// New creates a Storage using an existing connection.
func New(conn pgxIConn, opts ...StorageOption) *Storage {
	s := &Storage{conn: conn}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Documents lists the embedding documents of the stored world.
func (s *Storage) Documents(ctx context.Context) ([]store.Document, error) {
	return store.WorldDocuments{Reader: s}.Documents(ctx)
}

func collect[T any](ctx context.Context, conn pgxIConn, sql string, scan func(pgxv5.CollectableRow) (T, error), args ...any) ([]T, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgxv5.CollectRows(rows, scan)
}
