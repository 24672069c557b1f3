package pgx

import (
	"context"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

const (
	factionsSQL = `SELECT id, name, type, alignment FROM factions ORDER BY id`

	factionHeadquartersSQL = `SELECT fh.faction_id, s.id, s.name, a.id, a.name
FROM faction_headquarters fh
JOIN sites s ON s.id = fh.site_id
JOIN areas a ON a.id = s.area_id
ORDER BY fh.id`

	factionDiplomacySQL = `SELECT d.id, d.faction_id, sf.name, d.other_faction_id, tf.name,
    d.diplomatic_status, d.strength, d.description
FROM faction_diplomacy d
JOIN factions sf ON sf.id = d.faction_id
JOIN factions tf ON tf.id = d.other_faction_id
ORDER BY d.id`

	factionAgendasSQL = `SELECT id, faction_id, name, agenda_type, current_stage, importance
FROM faction_agendas ORDER BY id`

	factionInfluenceSQL = `SELECT tc.faction_id, f.name, tc.place_type,
    COALESCE(tc.region_id, tc.area_id, tc.site_id),
    COALESCE(r.name, a.name, s.name, ''),
    tc.influence_level
FROM faction_territorial_control tc
JOIN factions f ON f.id = tc.faction_id
LEFT JOIN regions r ON r.id = tc.region_id
LEFT JOIN areas a ON a.id = tc.area_id
LEFT JOIN sites s ON s.id = tc.site_id
ORDER BY tc.id`

	npcsSQL = `SELECT id, name, occupation, alignment, complexity_profile, player_perception_goal
FROM npcs ORDER BY id`

	npcFactionsSQL = `SELECT nf.npc_id, f.id, f.name, nf.role, nf.loyalty
FROM npc_factions nf
JOIN factions f ON f.id = nf.faction_id
ORDER BY nf.id`

	npcSitesSQL = `SELECT ns.npc_id, s.id, s.name, ns.is_current
FROM npc_sites ns
JOIN sites s ON s.id = ns.site_id
ORDER BY ns.id`

	npcRelationshipsSQL = `SELECT r.id, r.npc_id, sn.name, r.related_npc_id, tn.name, r.relationship_type, r.strength
FROM npc_relationships r
JOIN npcs sn ON sn.id = r.npc_id
JOIN npcs tn ON tn.id = r.related_npc_id
ORDER BY r.id`

	questsSQL = `SELECT q.id, q.name, q.type, q.urgency, q.region_id, r.name
FROM quests q
LEFT JOIN regions r ON r.id = q.region_id
ORDER BY q.id`

	questParticipantsSQL = `SELECT p.quest_id, p.npc_id, n.name, p.faction_id, f.name, p.role_in_quest
FROM quest_participants p
LEFT JOIN npcs n ON n.id = p.npc_id
LEFT JOIN factions f ON f.id = p.faction_id
ORDER BY p.id`

	questRelationsSQL = `SELECT qr.id, qr.source_quest_id, sq.name, qr.target_quest_id, tq.name, qr.relationship_type
FROM quest_relations qr
JOIN quests sq ON sq.id = qr.source_quest_id
JOIN quests tq ON tq.id = qr.target_quest_id
ORDER BY qr.id`

	conflictsSQL = `SELECT c.id, c.name, c.status, c.scope, c.natures, c.primary_region_id, r.name
FROM major_conflicts c
LEFT JOIN regions r ON r.id = c.primary_region_id
ORDER BY c.id`

	conflictParticipantsSQL = `SELECT p.conflict_id, p.npc_id, n.name, p.faction_id, f.name, p.role
FROM conflict_participants p
LEFT JOIN npcs n ON n.id = p.npc_id
LEFT JOIN factions f ON f.id = p.faction_id
ORDER BY p.id`

	regionsSQL = `SELECT id, name FROM regions ORDER BY id`

	areasSQL = `SELECT id, region_id, name FROM areas ORDER BY id`

	sitesSQL = `SELECT id, area_id, name FROM sites ORDER BY id`
)

type owned[T any] struct {
	owner int64
	value T
}

// Factions loads every faction with headquarters, diplomacy in both
// directions, agendas and territorial influence.
func (s *Storage) Factions(ctx context.Context) ([]common.Faction, error) {
	factions, err := collect(ctx, s.conn, factionsSQL, func(row pgxv5.CollectableRow) (common.Faction, error) {
		var f common.Faction
		err := row.Scan(&f.ID, &f.Name, &f.Type, &f.Alignment)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("load factions: %w", err)
	}
	index := indexByID(factions, func(f common.Faction) int64 { return f.ID })

	hqs, err := collect(ctx, s.conn, factionHeadquartersSQL, func(row pgxv5.CollectableRow) (owned[common.Site], error) {
		var o owned[common.Site]
		area := &common.Ref{}
		err := row.Scan(&o.owner, &o.value.ID, &o.value.Name, &area.ID, &area.Name)
		o.value.Area = area
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load faction headquarters: %w", err)
	}
	for _, hq := range hqs {
		if i, ok := index[hq.owner]; ok {
			factions[i].Headquarters = append(factions[i].Headquarters, hq.value)
		}
	}

	type diplomacyRow struct {
		common.Diplomacy
		source, target common.Ref
	}
	diplomacy, err := collect(ctx, s.conn, factionDiplomacySQL, func(row pgxv5.CollectableRow) (diplomacyRow, error) {
		var d diplomacyRow
		err := row.Scan(&d.ID, &d.source.ID, &d.source.Name, &d.target.ID, &d.target.Name,
			&d.Status, &d.Strength, &d.Description)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("load faction diplomacy: %w", err)
	}
	for _, d := range diplomacy {
		if i, ok := index[d.source.ID]; ok {
			out := d.Diplomacy
			target := d.target
			out.TargetFaction = &target
			factions[i].OutgoingRelations = append(factions[i].OutgoingRelations, out)
		}
		if i, ok := index[d.target.ID]; ok {
			in := d.Diplomacy
			source := d.source
			in.SourceFaction = &source
			factions[i].IncomingRelations = append(factions[i].IncomingRelations, in)
		}
	}

	agendas, err := collect(ctx, s.conn, factionAgendasSQL, func(row pgxv5.CollectableRow) (owned[common.Agenda], error) {
		var o owned[common.Agenda]
		err := row.Scan(&o.value.ID, &o.owner, &o.value.Name, &o.value.Type, &o.value.Stage, &o.value.Importance)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load faction agendas: %w", err)
	}
	for _, a := range agendas {
		if i, ok := index[a.owner]; ok {
			factions[i].Agendas = append(factions[i].Agendas, a.value)
		}
	}

	influence, err := collect(ctx, s.conn, factionInfluenceSQL, scanInfluence)
	if err != nil {
		return nil, fmt.Errorf("load faction influence: %w", err)
	}
	for _, inf := range influence {
		if i, ok := index[inf.Faction.ID]; ok {
			factions[i].Influence = append(factions[i].Influence, inf)
		}
	}

	return factions, nil
}

func scanInfluence(row pgxv5.CollectableRow) (common.Influence, error) {
	var (
		inf   common.Influence
		kind  string
		place common.Ref
	)
	if err := row.Scan(&inf.Faction.ID, &inf.Faction.Name, &kind, &place.ID, &place.Name, &inf.Level); err != nil {
		return inf, err
	}
	k, err := common.ParsePlaceKind(kind)
	if err != nil {
		return inf, err
	}
	inf.Place = common.NewPlace(k, place)
	return inf, nil
}

// NPCs loads every npc with memberships, sites and relationships in both
// directions.
func (s *Storage) NPCs(ctx context.Context) ([]common.NPC, error) {
	npcs, err := collect(ctx, s.conn, npcsSQL, func(row pgxv5.CollectableRow) (common.NPC, error) {
		var n common.NPC
		err := row.Scan(&n.ID, &n.Name, &n.Occupation, &n.Alignment, &n.ComplexityProfile, &n.PlayerPerceptionGoal)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("load npcs: %w", err)
	}
	index := indexByID(npcs, func(n common.NPC) int64 { return n.ID })

	members, err := collect(ctx, s.conn, npcFactionsSQL, func(row pgxv5.CollectableRow) (owned[common.Membership], error) {
		var o owned[common.Membership]
		err := row.Scan(&o.owner, &o.value.Faction.ID, &o.value.Faction.Name, &o.value.Role, &o.value.Loyalty)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load npc factions: %w", err)
	}
	for _, m := range members {
		if i, ok := index[m.owner]; ok {
			npcs[i].Factions = append(npcs[i].Factions, m.value)
		}
	}

	sites, err := collect(ctx, s.conn, npcSitesSQL, func(row pgxv5.CollectableRow) (owned[common.SiteAssociation], error) {
		var o owned[common.SiteAssociation]
		err := row.Scan(&o.owner, &o.value.Site.ID, &o.value.Site.Name, &o.value.IsCurrent)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load npc sites: %w", err)
	}
	for _, site := range sites {
		if i, ok := index[site.owner]; ok {
			npcs[i].Sites = append(npcs[i].Sites, site.value)
		}
	}

	type relationshipRow struct {
		common.Relationship
		source, target common.Ref
	}
	relations, err := collect(ctx, s.conn, npcRelationshipsSQL, func(row pgxv5.CollectableRow) (relationshipRow, error) {
		var r relationshipRow
		err := row.Scan(&r.ID, &r.source.ID, &r.source.Name, &r.target.ID, &r.target.Name, &r.Type, &r.Strength)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("load npc relationships: %w", err)
	}
	for _, r := range relations {
		if i, ok := index[r.source.ID]; ok {
			out := r.Relationship
			target := r.target
			out.TargetNPC = &target
			npcs[i].OutgoingRelations = append(npcs[i].OutgoingRelations, out)
		}
		if i, ok := index[r.target.ID]; ok {
			in := r.Relationship
			source := r.source
			in.SourceNPC = &source
			npcs[i].IncomingRelations = append(npcs[i].IncomingRelations, in)
		}
	}

	return npcs, nil
}

// Quests loads every quest with its region, participants and relations in
// both directions.
func (s *Storage) Quests(ctx context.Context) ([]common.Quest, error) {
	quests, err := collect(ctx, s.conn, questsSQL, func(row pgxv5.CollectableRow) (common.Quest, error) {
		var (
			q          common.Quest
			regionID   *int64
			regionName *string
		)
		err := row.Scan(&q.ID, &q.Name, &q.Type, &q.Urgency, &regionID, &regionName)
		q.Region = optionalRef(regionID, regionName)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}
	index := indexByID(quests, func(q common.Quest) int64 { return q.ID })

	participants, err := collect(ctx, s.conn, questParticipantsSQL, scanParticipant)
	if err != nil {
		return nil, fmt.Errorf("load quest participants: %w", err)
	}
	for _, p := range participants {
		if i, ok := index[p.owner]; ok {
			quests[i].Participants = append(quests[i].Participants, p.value)
		}
	}

	type relationRow struct {
		common.QuestRelation
		source, target common.Ref
	}
	relations, err := collect(ctx, s.conn, questRelationsSQL, func(row pgxv5.CollectableRow) (relationRow, error) {
		var r relationRow
		err := row.Scan(&r.ID, &r.source.ID, &r.source.Name, &r.target.ID, &r.target.Name, &r.Type)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("load quest relations: %w", err)
	}
	for _, r := range relations {
		if i, ok := index[r.source.ID]; ok {
			out := r.QuestRelation
			target := r.target
			out.TargetQuest = &target
			quests[i].OutgoingRelations = append(quests[i].OutgoingRelations, out)
		}
		if i, ok := index[r.target.ID]; ok {
			in := r.QuestRelation
			source := r.source
			in.SourceQuest = &source
			quests[i].IncomingRelations = append(quests[i].IncomingRelations, in)
		}
	}

	return quests, nil
}

// Conflicts loads every major conflict with its region and participants.
func (s *Storage) Conflicts(ctx context.Context) ([]common.Conflict, error) {
	conflicts, err := collect(ctx, s.conn, conflictsSQL, func(row pgxv5.CollectableRow) (common.Conflict, error) {
		var (
			c          common.Conflict
			regionID   *int64
			regionName *string
		)
		err := row.Scan(&c.ID, &c.Name, &c.Status, &c.Scope, &c.Natures, &regionID, &regionName)
		c.Region = optionalRef(regionID, regionName)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("load conflicts: %w", err)
	}
	index := indexByID(conflicts, func(c common.Conflict) int64 { return c.ID })

	participants, err := collect(ctx, s.conn, conflictParticipantsSQL, scanParticipant)
	if err != nil {
		return nil, fmt.Errorf("load conflict participants: %w", err)
	}
	for _, p := range participants {
		if i, ok := index[p.owner]; ok {
			conflicts[i].Participants = append(conflicts[i].Participants, p.value)
		}
	}

	return conflicts, nil
}

func scanParticipant(row pgxv5.CollectableRow) (owned[common.Participant], error) {
	var (
		o                    owned[common.Participant]
		npcID, factionID     *int64
		npcName, factionName *string
		role                 string
	)
	if err := row.Scan(&o.owner, &npcID, &npcName, &factionID, &factionName, &role); err != nil {
		return o, err
	}
	switch {
	case factionID != nil:
		o.value = common.FactionParticipant(*optionalRef(factionID, factionName), role)
	case npcID != nil:
		o.value = common.NPCParticipant(*optionalRef(npcID, npcName), role)
	default:
		return o, fmt.Errorf("participant row of %d has neither npc nor faction", o.owner)
	}
	return o, nil
}

// Regions loads the geography tree.
func (s *Storage) Regions(ctx context.Context) ([]common.Region, error) {
	regions, err := collect(ctx, s.conn, regionsSQL, func(row pgxv5.CollectableRow) (common.Region, error) {
		var r common.Region
		err := row.Scan(&r.ID, &r.Name)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}

	areas, err := collect(ctx, s.conn, areasSQL, func(row pgxv5.CollectableRow) (owned[common.Area], error) {
		var o owned[common.Area]
		err := row.Scan(&o.value.ID, &o.owner, &o.value.Name)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load areas: %w", err)
	}

	sites, err := collect(ctx, s.conn, sitesSQL, func(row pgxv5.CollectableRow) (owned[common.Site], error) {
		var o owned[common.Site]
		err := row.Scan(&o.value.ID, &o.owner, &o.value.Name)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}

	sitesByArea := make(map[int64][]common.Site)
	for _, site := range sites {
		sitesByArea[site.owner] = append(sitesByArea[site.owner], site.value)
	}
	index := indexByID(regions, func(r common.Region) int64 { return r.ID })
	for _, a := range areas {
		i, ok := index[a.owner]
		if !ok {
			continue
		}
		area := a.value
		area.Sites = sitesByArea[area.ID]
		regions[i].Areas = append(regions[i].Areas, area)
	}

	return regions, nil
}

func indexByID[T any](items []T, id func(T) int64) map[int64]int {
	out := make(map[int64]int, len(items))
	for i, item := range items {
		out[id(item)] = i
	}
	return out
}

func optionalRef(id *int64, name *string) *common.Ref {
	if id == nil {
		return nil
	}
	ref := &common.Ref{ID: *id}
	if name != nil {
		ref.Name = *name
	}
	return ref
}
