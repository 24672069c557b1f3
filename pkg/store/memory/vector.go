package memory

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"
)

// Upsert stores the embedding of doc.
func (s *Store) Upsert(ctx context.Context, doc store.Document, embedding []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[vectorKey{table: doc.Table, id: doc.ID}] = vectorEntry{name: doc.Name, vec: slices.Clone(embedding)}
	return nil
}

// Nearest scans every embedding of table and returns the closest by
// cosine distance, ties broken by id.
func (s *Store) Nearest(ctx context.Context, table string, embedding []float32, limit int) ([]store.Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []store.Neighbor
	for key, entry := range s.vectors {
		if key.table != table {
			continue
		}
		if len(entry.vec) != len(embedding) {
			s.mu.RUnlock()
			return nil, fmt.Errorf("dimension mismatch for %s %d: %d != %d", key.table, key.id, len(entry.vec), len(embedding))
		}
		out = append(out, store.Neighbor{
			Hit:      common.SearchHit{ID: key.id, Name: entry.name, Table: key.table},
			Distance: CosineDistance(entry.vec, embedding),
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Hit.ID < out[j].Hit.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Documents lists the embedding documents of the world.
func (s *Store) Documents(ctx context.Context) ([]store.Document, error) {
	return store.WorldDocuments{Reader: s}.Documents(ctx)
}

// CosineDistance is 1 - cosine similarity, the pgvector <=> operator. A
// zero vector is at distance 1 from everything.
func CosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
