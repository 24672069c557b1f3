package gaps

import (
	"fmt"
	"strings"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/distribution"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/graph"
)

// AnalyzeNPCs reports complexity and perception gaps, thin faction
// membership, the relationship network, regional density, quest urgency
// balance and NPCs outside every quest and conflict.
func AnalyzeNPCs(w common.World, t Thresholds) Report {
	t = t.normalized()
	b := newBuilder(DomainNPCs)

	regionalDensity(b, w.Regions, t)
	b.urgencyBalance(w.Quests, t)

	npcs := w.NPCs
	if len(npcs) == 0 {
		return b.build()
	}

	complexity := distribution.CountBy(npcs, func(n common.NPC) string { return n.ComplexityProfile }, common.ComplexityProfiles...)
	b.distribution("complexityProfile", complexity)
	for _, key := range complexity.Underrepresented(t.Quartile) {
		b.add(ComplexityGaps, fmt.Sprintf("%s NPCs needed for campaign balance.", strings.ReplaceAll(key, "_", " ")))
	}

	perception := distribution.CountBy(npcs, func(n common.NPC) string { return n.PlayerPerceptionGoal }, common.PerceptionGoals...)
	b.distribution("playerPerceptionGoal", perception)
	b.lacking(PerceptionGaps, perception, t.Quartile, "NPCs", "perception goal")

	for _, f := range w.Factions {
		members := 0
		for _, n := range npcs {
			for _, m := range n.Factions {
				if m.Faction.ID == f.ID && m.Loyalty != "none" {
					members++
					break
				}
			}
		}
		if members < t.MinFactionMembers {
			b.add(FactionRepresentation, fmt.Sprintf("%s needs more NPC representation (%d current members).", f.Name, members), f.Ref())
		}
	}

	views := graph.Views(npcs, graph.NPCRelations)
	connectivity(b, RelationshipGaps, views, common.NPC.Ref, t.ConnectionDivisor, "relationships")

	var lists [][]common.Participant
	for _, q := range w.Quests {
		lists = append(lists, q.Participants)
	}
	for _, c := range w.Conflicts {
		lists = append(lists, c.Participants)
	}
	population := refs(npcs, common.NPC.Ref)
	if idle := outside(population, participants(common.ParticipantNPC, lists...)); exceeds(len(idle), len(population), t.IntegrationFraction) {
		b.add(NarrativeIntegration, fmt.Sprintf("%d NPCs are not involved in active storylines.", len(idle)), idle...)
	}

	return b.build()
}

// regionalDensity flags regions with too few areas and areas with too few
// sites.
func regionalDensity(b *builder, regions []common.Region, t Thresholds) {
	for _, r := range regions {
		if len(r.Areas) < t.MinAreasPerRegion {
			b.add(RegionalDensity, fmt.Sprintf("Region %s has only %d areas.", r.Name, len(r.Areas)), common.Ref{ID: r.ID, Name: r.Name})
		}
	}
	for _, r := range regions {
		for _, a := range r.Areas {
			if len(a.Sites) < t.MinSitesPerArea {
				b.add(RegionalDensity, fmt.Sprintf("Area %s has only %d sites.", a.Name, len(a.Sites)), common.Ref{ID: a.ID, Name: a.Name})
			}
		}
	}
}
