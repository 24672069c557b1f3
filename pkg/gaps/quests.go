package gaps

import (
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/distribution"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/graph"
)

// AnalyzeQuests reports quest type and urgency balance, dependency
// connectivity and quests nobody takes part in.
func AnalyzeQuests(w common.World, t Thresholds) Report {
	t = t.normalized()
	b := newBuilder(DomainQuests)
	quests := w.Quests
	if len(quests) == 0 {
		return b.build()
	}

	types := distribution.CountBy(quests, func(q common.Quest) string { return q.Type }, common.QuestTypes...)
	b.distribution("type", types)
	b.lacking(QuestTypeGaps, types, t.Quartile, "quests", "type")

	b.urgencyBalance(quests, t)

	relations := distribution.Strings(distribution.Flatten(quests, func(q common.Quest) []string {
		out := make([]string, len(q.OutgoingRelations))
		for i, r := range q.OutgoingRelations {
			out[i] = r.Type
		}
		return out
	}), common.QuestRelationTypes...)
	b.distribution("relationType", relations)
	if relations.Total() > 0 {
		b.lacking(DependencyGaps, relations, t.Quartile, "quest relations", "type")
	}

	views := graph.Views(quests, graph.QuestRelations)
	connectivity(b, DependencyGaps, views, common.Quest.Ref, t.ConnectionDivisor, "quest connections")

	for _, q := range quests {
		if len(q.Participants) == 0 {
			b.add(ParticipationGaps, fmt.Sprintf("%s has no participating NPCs or factions.", q.Name), q.Ref())
		}
	}

	return b.build()
}
