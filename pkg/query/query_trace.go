package query

import (
	"slices"
	"sort"
	"sync"
)

type TraceEventKind string

const (
	TraceEventFuzzyHits       TraceEventKind = "fuzzy_hits"
	TraceEventSemanticHits    TraceEventKind = "semantic_hits"
	TraceEventDroppedEntities TraceEventKind = "dropped_entities"
	TraceEventEntityType      TraceEventKind = "entity_type"
	TraceEventMethod          TraceEventKind = "method"
)

// TraceEvent is an extensible event envelope for search tracing.
type TraceEvent struct {
	Kind TraceEventKind

	EntityIDs  []int64
	EntityType string
	Method     Method
	Error      string
}

// Tracer is a sink for search tracing events.
type Tracer interface {
	Record(event TraceEvent)
}

// MultiTracer fan-outs trace events to multiple tracers.
type MultiTracer []Tracer

func (m MultiTracer) Record(event TraceEvent) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(event)
	}
}

func record(t Tracer, event TraceEvent) {
	if t == nil {
		return
	}
	t.Record(event)
}

// SearchTrace collects what a SmartSearch call looked at. It is safe for
// concurrent use.
type SearchTrace struct {
	mu sync.Mutex

	fuzzyIDs    map[int64]struct{}
	semanticIDs map[int64]struct{}
	droppedIDs  map[int64]struct{}
	entityTypes map[string]struct{}
	methods     []Method
	errors      []string
}

// SearchTraceSnapshot is a sorted copy of a SearchTrace.
type SearchTraceSnapshot struct {
	FuzzyIDs    []int64  `json:"fuzzyIds"`
	SemanticIDs []int64  `json:"semanticIds"`
	DroppedIDs  []int64  `json:"droppedIds"`
	EntityTypes []string `json:"entityTypes"`
	Methods     []Method `json:"methods"`
	Errors      []string `json:"errors,omitempty"`
}

func NewSearchTrace() *SearchTrace {
	return &SearchTrace{
		fuzzyIDs:    make(map[int64]struct{}),
		semanticIDs: make(map[int64]struct{}),
		droppedIDs:  make(map[int64]struct{}),
		entityTypes: make(map[string]struct{}),
	}
}

func (t *SearchTrace) Record(event TraceEvent) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	addIDs := func(set map[int64]struct{}) {
		for _, id := range event.EntityIDs {
			if id == 0 {
				continue
			}
			set[id] = struct{}{}
		}
	}

	switch event.Kind {
	case TraceEventFuzzyHits:
		addIDs(t.fuzzyIDs)
	case TraceEventSemanticHits:
		addIDs(t.semanticIDs)
	case TraceEventDroppedEntities:
		addIDs(t.droppedIDs)
		if event.Error != "" {
			t.errors = append(t.errors, event.Error)
		}
	case TraceEventEntityType:
		if event.EntityType != "" {
			t.entityTypes[event.EntityType] = struct{}{}
		}
	case TraceEventMethod:
		t.methods = append(t.methods, event.Method)
	}
}

func (t *SearchTrace) Snapshot() SearchTraceSnapshot {
	if t == nil {
		return SearchTraceSnapshot{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	keys := func(set map[int64]struct{}) []int64 {
		out := make([]int64, 0, len(set))
		for id := range set {
			out = append(out, id)
		}
		slices.Sort(out)
		return out
	}

	s := SearchTraceSnapshot{
		FuzzyIDs:    keys(t.fuzzyIDs),
		SemanticIDs: keys(t.semanticIDs),
		DroppedIDs:  keys(t.droppedIDs),
		EntityTypes: make([]string, 0, len(t.entityTypes)),
		Methods:     slices.Clone(t.methods),
		Errors:      slices.Clone(t.errors),
	}
	for typ := range t.entityTypes {
		s.EntityTypes = append(s.EntityTypes, typ)
	}
	sort.Strings(s.EntityTypes)
	return s
}
