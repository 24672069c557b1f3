package graph

import "github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

// RelationsProperty is the property every unified view is exposed under.
const RelationsProperty = "relations"

// FactionRelations unifies a faction's diplomacy rows under "faction".
func FactionRelations(f common.Faction) View[common.Faction, common.Diplomacy] {
	return Unify(f, Source[common.Diplomacy]{
		Property: "outgoingRelations",
		Key:      "targetFaction",
		Rows:     f.OutgoingRelations,
		Other:    func(d common.Diplomacy) *common.Ref { return d.TargetFaction },
	}).With(Source[common.Diplomacy]{
		Property: "incomingRelations",
		Key:      "sourceFaction",
		Rows:     f.IncomingRelations,
		Other:    func(d common.Diplomacy) *common.Ref { return d.SourceFaction },
	}).To(Target{Property: RelationsProperty, Key: "faction"})
}

// NPCRelations unifies an npc's relationship rows under "npc".
func NPCRelations(n common.NPC) View[common.NPC, common.Relationship] {
	return Unify(n, Source[common.Relationship]{
		Property: "outgoingRelations",
		Key:      "targetNpc",
		Rows:     n.OutgoingRelations,
		Other:    func(r common.Relationship) *common.Ref { return r.TargetNPC },
	}).With(Source[common.Relationship]{
		Property: "incomingRelations",
		Key:      "sourceNpc",
		Rows:     n.IncomingRelations,
		Other:    func(r common.Relationship) *common.Ref { return r.SourceNPC },
	}).To(Target{Property: RelationsProperty, Key: "npc"})
}

// QuestRelations unifies a quest's dependency rows under "quest".
func QuestRelations(q common.Quest) View[common.Quest, common.QuestRelation] {
	return Unify(q, Source[common.QuestRelation]{
		Property: "outgoingRelations",
		Key:      "targetQuest",
		Rows:     q.OutgoingRelations,
		Other:    func(r common.QuestRelation) *common.Ref { return r.TargetQuest },
	}).With(Source[common.QuestRelation]{
		Property: "incomingRelations",
		Key:      "sourceQuest",
		Rows:     q.IncomingRelations,
		Other:    func(r common.QuestRelation) *common.Ref { return r.SourceQuest },
	}).To(Target{Property: RelationsProperty, Key: "quest"})
}

// Views applies unify to every entity, preserving order.
func Views[E any, R any](entities []E, unify func(E) View[E, R]) []View[E, R] {
	out := make([]View[E, R], 0, len(entities))
	for _, e := range entities {
		out = append(out, unify(e))
	}
	return out
}
