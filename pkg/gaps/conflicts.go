package gaps

import (
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/distribution"
)

// AnalyzeConflicts reports conflict status, nature and scope gaps,
// one-sided conflicts, conflicts without a region and factions outside
// every conflict.
func AnalyzeConflicts(w common.World, t Thresholds) Report {
	t = t.normalized()
	b := newBuilder(DomainConflicts)
	conflicts := w.Conflicts
	if len(conflicts) == 0 {
		return b.build()
	}

	statuses := distribution.CountBy(conflicts, func(c common.Conflict) string { return c.Status }, common.ConflictStatuses...)
	b.distribution("status", statuses)
	b.lacking(StatusGaps, statuses, t.Quartile, "conflicts", "status")

	natures := distribution.Strings(distribution.Flatten(conflicts, func(c common.Conflict) []string {
		return c.Natures
	}), common.ConflictNatures...)
	b.distribution("nature", natures)
	b.lacking(NatureGaps, natures, t.Quartile, "conflicts", "nature")

	scopes := distribution.CountBy(conflicts, func(c common.Conflict) string { return c.Scope }, common.ConflictScopes...)
	b.distribution("scope", scopes)
	b.lacking(ScopeGaps, scopes, t.Quartile, "conflicts", "scope")

	for _, c := range conflicts {
		if len(c.Participants) < t.MinConflictParticipants {
			b.add(ParticipationGaps, fmt.Sprintf("%s has only %d participants.", c.Name, len(c.Participants)), c.Ref())
		}
	}

	for _, c := range conflicts {
		if c.Region == nil {
			b.add(RegionalGaps, fmt.Sprintf("%s is not tied to a region.", c.Name), c.Ref())
		}
	}

	lists := make([][]common.Participant, len(conflicts))
	for i, c := range conflicts {
		lists[i] = c.Participants
	}
	population := refs(w.Factions, common.Faction.Ref)
	if idle := outside(population, participants(common.ParticipantFaction, lists...)); exceeds(len(idle), len(population), t.IntegrationFraction) {
		b.add(NarrativeIntegration, fmt.Sprintf("%d of %d factions are not involved in any conflict.", len(idle), len(population)), idle...)
	}

	return b.build()
}
