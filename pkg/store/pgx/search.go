package pgx

import (
	"context"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"

	pgxv5 "github.com/jackc/pgx/v5"
)

const searchFuzzyCombinedSQL = `SELECT id, name, source_table
FROM search_fuzzy_combined($1, $2, $3, $4, $5)
LIMIT $6`

// SearchFuzzyCombined calls the search_fuzzy_combined database function.
// A non positive limit returns every match.
func (s *Storage) SearchFuzzyCombined(ctx context.Context, term string, p search.Params) ([]common.SearchHit, error) {
	var limit any
	if p.Limit > 0 {
		limit = p.Limit
	}
	hits, err := collect(ctx, s.conn, searchFuzzyCombinedSQL, func(row pgxv5.CollectableRow) (common.SearchHit, error) {
		var h common.SearchHit
		err := row.Scan(&h.ID, &h.Name, &h.Table)
		return h, err
	}, term, p.FuzzyWeight, p.SimilarityThreshold, p.MaxLevenshtein, p.PhoneticStrength, limit)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search_fuzzy_combined", "term", term, "hits", len(hits))
	return hits, nil
}
