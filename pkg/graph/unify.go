// Package graph normalises directional relation collections into a single
// per-entity relation view and derives connectivity from it.
package graph

import "github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

// Source names one directional relation collection on an entity together
// with the key the counterpart is nested under in that collection.
type Source[R any] struct {
	Property string
	Key      string
	Rows     []R
	Other    func(R) *common.Ref
}

// Target names the unified collection and the key every counterpart is
// exposed under.
type Target struct {
	Property string
	Key      string
}

// Relation is one row of a unified view. Row is the untouched input row,
// From is the property it was read from and Key is the target key the
// counterpart was renamed to.
type Relation[R any] struct {
	Key   string     `json:"key"`
	Other common.Ref `json:"other"`
	From  string     `json:"from"`
	Row   R          `json:"row"`
}

// View is an entity plus its unified relations.
type View[E any, R any] struct {
	Entity    E             `json:"entity"`
	Property  string        `json:"property"`
	Relations []Relation[R] `json:"relations"`
}

// Len is the unified degree of the entity.
func (v View[E, R]) Len() int { return len(v.Relations) }

// Counterparts returns the counterpart of every relation in order.
func (v View[E, R]) Counterparts() []common.Ref {
	out := make([]common.Ref, 0, len(v.Relations))
	for _, r := range v.Relations {
		out = append(out, r.Other)
	}
	return out
}

// Builder accumulates sources until To is called.
type Builder[E any, R any] struct {
	entity  E
	sources []Source[R]
}

// Unify starts a relation view over entity from its first collection.
//
//	v := graph.Unify(faction, outgoing).With(incoming).To(graph.Target{Property: "relations", Key: "faction"})
func Unify[E any, R any](entity E, from Source[R]) *Builder[E, R] {
	return &Builder[E, R]{entity: entity, sources: []Source[R]{from}}
}

// With adds another collection.
func (b *Builder[E, R]) With(src Source[R]) *Builder[E, R] {
	b.sources = append(b.sources, src)
	return b
}

// To concatenates every collection in the order given, renaming each
// counterpart key to target.Key. Rows without a counterpart are kept with a
// zero Ref, so the result length is always the sum of the inputs.
func (b *Builder[E, R]) To(target Target) View[E, R] {
	total := 0
	for _, src := range b.sources {
		total += len(src.Rows)
	}

	view := View[E, R]{
		Entity:    b.entity,
		Property:  target.Property,
		Relations: make([]Relation[R], 0, total),
	}
	for _, src := range b.sources {
		for _, row := range src.Rows {
			var other common.Ref
			if src.Other != nil {
				if ref := src.Other(row); ref != nil {
					other = *ref
				}
			}
			view.Relations = append(view.Relations, Relation[R]{
				Key:   target.Key,
				Other: other,
				From:  src.Property,
				Row:   row,
			})
		}
	}
	return view
}
