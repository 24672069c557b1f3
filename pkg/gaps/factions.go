package gaps

import (
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/distribution"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/graph"
)

// AnalyzeFactions reports faction type, alignment, agenda and diplomacy
// gaps, the diplomatic network, territorial coverage and how many
// factions stay outside conflicts and quests.
func AnalyzeFactions(w common.World, t Thresholds) Report {
	t = t.normalized()
	b := newBuilder(DomainFactions)
	factions := w.Factions
	if len(factions) == 0 {
		return b.build()
	}

	types := distribution.CountBy(factions, func(f common.Faction) string { return f.Type }, common.FactionTypes...)
	b.distribution("type", types)
	b.lacking(PowerVacuums, types, t.Quartile, "factions", "type")

	agendas := distribution.Strings(distribution.Flatten(factions, func(f common.Faction) []string {
		out := make([]string, len(f.Agendas))
		for i, a := range f.Agendas {
			out[i] = a.Type
		}
		return out
	}), common.AgendaTypes...)
	b.distribution("agendaType", agendas)
	for _, bucket := range agendas {
		if bucket.Count == 0 {
			b.add(PowerVacuums, fmt.Sprintf("No faction pursues a %s agenda.", bucket.Key))
		}
	}

	alignments := distribution.CountBy(factions, func(f common.Faction) string { return f.Alignment }, common.Alignments...)
	b.distribution("alignment", alignments)
	b.lacking(AlignmentGaps, alignments, t.Quartile, "factions", "alignment")

	// Outgoing rows see every stored edge exactly once.
	statuses := distribution.Strings(distribution.Flatten(factions, func(f common.Faction) []string {
		out := make([]string, len(f.OutgoingRelations))
		for i, d := range f.OutgoingRelations {
			out[i] = d.Status
		}
		return out
	}), common.DiplomaticStatuses...)
	b.distribution("diplomaticStatus", statuses)
	if statuses.Total() > 0 {
		b.lacking(DiplomaticOpenings, statuses, t.Quartile, "diplomatic relationships", "status")
	}

	views := graph.Views(factions, graph.FactionRelations)
	connectivity(b, DiplomaticOpenings, views, common.Faction.Ref, t.ConnectionDivisor, "diplomatic relationships")

	territory(b, w, t)

	population := refs(factions, common.Faction.Ref)
	var conflictParticipants, questParticipants [][]common.Participant
	for _, c := range w.Conflicts {
		conflictParticipants = append(conflictParticipants, c.Participants)
	}
	for _, q := range w.Quests {
		questParticipants = append(questParticipants, q.Participants)
	}
	if idle := outside(population, participants(common.ParticipantFaction, conflictParticipants...)); exceeds(len(idle), len(population), t.IntegrationFraction) {
		b.add(NarrativeIntegration, fmt.Sprintf("%d of %d factions are not involved in any conflict.", len(idle), len(population)), idle...)
	}
	if idle := outside(population, participants(common.ParticipantFaction, questParticipants...)); exceeds(len(idle), len(population), t.IntegrationFraction) {
		b.add(NarrativeIntegration, fmt.Sprintf("%d of %d factions are not involved in any quest.", len(idle), len(population)), idle...)
	}

	return b.build()
}

// territory reports factions without headquarters, areas claimed by more
// than MaxInfluencePerArea factions and areas no faction holds. Site
// influence counts towards the site's area.
func territory(b *builder, w common.World, t Thresholds) {
	for _, f := range w.Factions {
		if len(f.Headquarters) == 0 {
			b.add(TerritorialOpportunities, fmt.Sprintf("%s has no headquarters.", f.Name), f.Ref())
		}
	}

	var areas []common.Ref
	siteArea := make(map[int64]int64)
	for _, r := range w.Regions {
		for _, a := range r.Areas {
			areas = append(areas, common.Ref{ID: a.ID, Name: a.Name})
			for _, s := range a.Sites {
				siteArea[s.ID] = a.ID
			}
		}
	}
	if len(areas) == 0 {
		return
	}

	holders := make(map[int64]map[int64]struct{})
	claim := func(area, faction int64) {
		if holders[area] == nil {
			holders[area] = make(map[int64]struct{})
		}
		holders[area][faction] = struct{}{}
	}
	for _, f := range w.Factions {
		for _, inf := range f.Influence {
			switch inf.Place.Kind() {
			case common.PlaceArea:
				claim(inf.Place.Ref().ID, f.ID)
			case common.PlaceSite:
				if area, ok := siteArea[inf.Place.Ref().ID]; ok {
					claim(area, f.ID)
				}
			}
		}
	}

	var empty []common.Ref
	for _, a := range areas {
		n := len(holders[a.ID])
		switch {
		case n == 0:
			empty = append(empty, a)
		case n > t.MaxInfluencePerArea:
			b.add(TerritorialOpportunities, fmt.Sprintf("Area %s is contested by %d factions.", a.Name, n), a)
		}
	}
	if len(empty) > 0 {
		b.add(TerritorialOpportunities, fmt.Sprintf("%d of %d areas lack any faction presence.", len(empty), len(areas)), empty...)
	}
}
