package pgx

import (
	"context"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

const (
	nearestSQL = `SELECT entity_id, name, embedding <=> $2 AS distance
FROM entity_embeddings
WHERE table_name = $1
ORDER BY distance, entity_id
LIMIT $3`

	upsertEmbeddingSQL = `INSERT INTO entity_embeddings (table_name, entity_id, name, content, embedding, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (table_name, entity_id) DO UPDATE
SET name = EXCLUDED.name,
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    updated_at = now()`
)

// Nearest returns the closest embeddings of table by cosine distance.
func (s *Storage) Nearest(ctx context.Context, table string, embedding []float32, limit int) ([]store.Neighbor, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	neighbors, err := collect(ctx, s.conn, nearestSQL, func(row pgxv5.CollectableRow) (store.Neighbor, error) {
		n := store.Neighbor{Hit: common.SearchHit{Table: table}}
		err := row.Scan(&n.Hit.ID, &n.Hit.Name, &n.Distance)
		return n, err
	}, table, pgvector.NewVector(embedding), lim)
	if err != nil {
		return nil, fmt.Errorf("nearest %s: %w", table, err)
	}
	return neighbors, nil
}

// Upsert stores or replaces the embedding of doc.
func (s *Storage) Upsert(ctx context.Context, doc store.Document, embedding []float32) error {
	_, err := s.conn.Exec(ctx, upsertEmbeddingSQL,
		doc.Table,
		doc.ID,
		util.SanitizePostgresText(doc.Name),
		util.SanitizePostgresText(doc.Text),
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert embedding %s %d: %w", doc.Table, doc.ID, err)
	}
	return nil
}
