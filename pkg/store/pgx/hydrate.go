package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

const (
	hydrateNPCSQL = `SELECT n.id, n.name, n.occupation, COALESCE((
    SELECT s.name FROM npc_sites ns JOIN sites s ON s.id = ns.site_id
    WHERE ns.npc_id = n.id
    ORDER BY ns.is_current DESC, ns.id
    LIMIT 1
), '')
FROM npcs n WHERE n.id = $1`

	hydrateFactionSQL = `SELECT id, name, type, alignment FROM factions WHERE id = $1`

	hydrateQuestSQL = `SELECT id, name, type, urgency FROM quests WHERE id = $1`
)

// Hydrate loads the projection columns of hit's table.
func (s *Storage) Hydrate(ctx context.Context, hit common.SearchHit) (common.Projection, error) {
	p := common.Projection{SourceTable: hit.Table}

	var err error
	switch hit.Table {
	case common.TableNPCs:
		err = s.conn.QueryRow(ctx, hydrateNPCSQL, hit.ID).Scan(&p.ID, &p.Name, &p.Occupation, &p.Location)
	case common.TableFactions:
		err = s.conn.QueryRow(ctx, hydrateFactionSQL, hit.ID).Scan(&p.ID, &p.Name, &p.Type, &p.Alignment)
	case common.TableQuests:
		err = s.conn.QueryRow(ctx, hydrateQuestSQL, hit.ID).Scan(&p.ID, &p.Name, &p.QuestType, &p.Urgency)
	default:
		return common.Projection{}, apperror.New(apperror.CodeValidation, fmt.Sprintf("cannot hydrate table %q", hit.Table))
	}

	if errors.Is(err, pgxv5.ErrNoRows) {
		return common.Projection{}, apperror.WrapWithMetadata(
			apperror.CodeNotFound,
			fmt.Sprintf("%s %d not found", hit.Table, hit.ID),
			map[string]string{"table": hit.Table, "id": fmt.Sprint(hit.ID)},
			err,
		)
	}
	if err != nil {
		return common.Projection{}, fmt.Errorf("hydrate %s %d: %w", hit.Table, hit.ID, err)
	}
	return p, nil
}
