package memory

import (
	"context"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
)

// Hydrate expands a hit into the projection of its table.
func (s *Store) Hydrate(ctx context.Context, hit common.SearchHit) (common.Projection, error) {
	if err := ctx.Err(); err != nil {
		return common.Projection{}, err
	}

	p := common.Projection{ID: hit.ID, Name: hit.Name, SourceTable: hit.Table}
	switch hit.Table {
	case common.TableNPCs:
		for _, n := range s.world.NPCs {
			if n.ID != hit.ID {
				continue
			}
			p.Name = n.Name
			p.Occupation = n.Occupation
			p.Location = npcLocation(n)
			return p, nil
		}
	case common.TableFactions:
		for _, f := range s.world.Factions {
			if f.ID != hit.ID {
				continue
			}
			p.Name = f.Name
			p.Type = f.Type
			p.Alignment = f.Alignment
			return p, nil
		}
	case common.TableQuests:
		for _, q := range s.world.Quests {
			if q.ID != hit.ID {
				continue
			}
			p.Name = q.Name
			p.QuestType = q.Type
			p.Urgency = q.Urgency
			return p, nil
		}
	default:
		return common.Projection{}, apperror.New(apperror.CodeValidation, fmt.Sprintf("cannot hydrate table %q", hit.Table))
	}

	return common.Projection{}, apperror.WithMetadata(
		apperror.CodeNotFound,
		fmt.Sprintf("%s %d not found", hit.Table, hit.ID),
		map[string]string{"table": hit.Table, "id": fmt.Sprint(hit.ID)},
	)
}

// npcLocation prefers the current site and falls back to the first one.
func npcLocation(n common.NPC) string {
	for _, s := range n.Sites {
		if s.IsCurrent {
			return s.Site.Name
		}
	}
	if len(n.Sites) > 0 {
		return n.Sites[0].Site.Name
	}
	return ""
}
