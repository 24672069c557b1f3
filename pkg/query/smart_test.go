package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store/memory"
	"github.com/google/go-cmp/cmp"
)

type staticBackend []common.SearchHit

func (b staticBackend) SearchFuzzyCombined(context.Context, string, search.Params) ([]common.SearchHit, error) {
	return b, nil
}

// flakyHydrator fails for the listed ids and echoes everything else.
type flakyHydrator struct {
	fail map[int64]bool
}

func (h flakyHydrator) Hydrate(_ context.Context, hit common.SearchHit) (common.Projection, error) {
	if h.fail[hit.ID] {
		return common.Projection{}, apperror.New(apperror.CodeNotFound, "row vanished")
	}
	return common.Projection{ID: hit.ID, Name: hit.Name, SourceTable: hit.Table}, nil
}

type recordingLog struct {
	mu    sync.Mutex
	warns []string
}

func (r *recordingLog) Log(string, ...any)   {}
func (r *recordingLog) Debug(string, ...any) {}
func (r *recordingLog) Info(string, ...any)  {}
func (r *recordingLog) Error(string, ...any) {}
func (r *recordingLog) Fatal(string, ...any) {}
func (r *recordingLog) Warn(m string, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, m)
}

type fixedEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fixedEmbedder) GenerateEmbedding(context.Context, []byte) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

func newSearcher(backend search.Backend, hydrator store.Hydrator, opts ...Option) *Searcher {
	return NewSearcher(search.NewResolver(backend, logger.Nop()), hydrator, logger.Nop(), opts...)
}

func TestSmartSearch_FiltersAndKeepsOrder(t *testing.T) {
	backend := staticBackend{
		{ID: 7, Name: "Gareth", Table: common.TableNPCs},
		{ID: 1, Name: "Gareth's Men", Table: common.TableFactions},
		{ID: 3, Name: "Garett", Table: common.TableNPCs},
		{ID: 5, Name: "Gart", Table: common.TableNPCs},
	}
	s := newSearcher(backend, flakyHydrator{})

	got, err := s.SmartSearch(context.Background(), "gareth", common.TableNPCs, 2)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}
	want := Result{
		Method: MethodFuzzy,
		Query:  "gareth",
		Results: []common.Projection{
			{ID: 7, Name: "Gareth", SourceTable: common.TableNPCs},
			{ID: 3, Name: "Garett", SourceTable: common.TableNPCs},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if got.Err() != nil {
		t.Fatalf("Err() = %v, want nil", got.Err())
	}
}

func TestSmartSearch_DropsFailedHydration(t *testing.T) {
	backend := staticBackend{
		{ID: 1, Name: "A", Table: common.TableQuests},
		{ID: 2, Name: "B", Table: common.TableQuests},
		{ID: 3, Name: "C", Table: common.TableQuests},
	}
	rec := &recordingLog{}
	trace := NewSearchTrace()
	s := NewSearcher(search.NewResolver(backend, logger.Nop()), flakyHydrator{fail: map[int64]bool{2: true}}, logger.New(rec), WithTracer(trace))

	got, err := s.SmartSearch(context.Background(), "x", common.TableQuests, 0)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}
	var ids []int64
	for _, p := range got.Results {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]int64{1, 3}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if len(rec.warns) != 1 {
		t.Fatalf("warnings = %v, want one", rec.warns)
	}
	snap := trace.Snapshot()
	if diff := cmp.Diff([]int64{2}, snap.DroppedIDs); diff != "" {
		t.Fatalf("dropped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Method{MethodFuzzy}, snap.Methods); diff != "" {
		t.Fatalf("methods mismatch (-want +got):\n%s", diff)
	}
}

func TestSmartSearch_NoneWithoutSemanticTier(t *testing.T) {
	s := newSearcher(staticBackend{{ID: 1, Name: "Iron Guild", Table: common.TableFactions}}, flakyHydrator{})

	got, err := s.SmartSearch(context.Background(), "qqq", common.TableNPCs, 5)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}
	want := Result{Method: MethodNone, Query: "qqq", Results: []common.Projection{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if !apperror.IsCode(got.Err(), apperror.CodeDegradedResult) {
		t.Fatalf("Err() = %v, want degraded_result", got.Err())
	}
}

func TestSmartSearch_AllHydrationFailedIsNone(t *testing.T) {
	s := newSearcher(staticBackend{{ID: 1, Name: "A", Table: common.TableNPCs}}, flakyHydrator{fail: map[int64]bool{1: true}})
	got, err := s.SmartSearch(context.Background(), "a", common.TableNPCs, 5)
	if err != nil || got.Method != MethodNone {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestSmartSearch_SemanticFallback(t *testing.T) {
	mem := memory.New(common.World{NPCs: []common.NPC{
		{ID: 1, Name: "Elena Brightforge", Occupation: "blacksmith"},
		{ID: 2, Name: "Gareth", Occupation: "preacher"},
	}})
	ctx := context.Background()
	_ = mem.Upsert(ctx, store.Document{Table: common.TableNPCs, ID: 1, Name: "Elena Brightforge"}, []float32{1, 0})
	_ = mem.Upsert(ctx, store.Document{Table: common.TableNPCs, ID: 2, Name: "Gareth"}, []float32{0, 1})

	emb := &fixedEmbedder{vec: []float32{0.9, 0.1}}
	s := NewSearcher(search.NewResolver(mem, logger.Nop()), mem, logger.Nop(), WithSemantic(emb, mem))

	got, err := s.SmartSearch(ctx, "the smith who works iron", common.TableNPCs, 1)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}
	if got.Method != MethodSemantic {
		t.Fatalf("method = %q, want semantic", got.Method)
	}
	if len(got.Results) != 1 || got.Results[0].ID != 1 || got.Results[0].Occupation != "blacksmith" {
		t.Fatalf("results = %+v", got.Results)
	}
	if got.Results[0].Distance <= 0 || got.Results[0].Distance >= 1 {
		t.Fatalf("distance = %v", got.Results[0].Distance)
	}
}

func TestSmartSearch_SemanticFailureDegrades(t *testing.T) {
	mem := memory.New(common.World{})
	emb := &fixedEmbedder{err: errors.New("quota exceeded")}
	rec := &recordingLog{}
	s := NewSearcher(search.NewResolver(mem, logger.Nop()), mem, logger.New(rec), WithSemantic(emb, mem), WithEmbedRetries(3))

	got, err := s.SmartSearch(context.Background(), "anything", common.TableFactions, 5)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}
	if got.Method != MethodNone {
		t.Fatalf("method = %q, want none", got.Method)
	}
	if emb.calls != 3 {
		t.Fatalf("embed calls = %d, want 3", emb.calls)
	}
	if len(rec.warns) != 1 {
		t.Fatalf("warnings = %v", rec.warns)
	}
}

func TestSmartSearch_ExactNameRanksFirst(t *testing.T) {
	mem, err := memory.LoadFile("../store/memory/testdata/world.json")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	s := NewSearcher(search.NewResolver(mem, logger.Nop()), mem, logger.Nop())

	got, err := s.SmartSearch(context.Background(), "Iron Guild", common.TableFactions, 5)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}
	if got.Method != MethodFuzzy || got.Results[0].Name != "Iron Guild" {
		t.Fatalf("result = %+v", got)
	}
}

func TestSmartSearch_Validation(t *testing.T) {
	s := newSearcher(staticBackend{}, flakyHydrator{})
	tests := []struct {
		name, query, typ string
	}{
		{name: "empty query", query: " ", typ: common.TableNPCs},
		{name: "unknown type", query: "x", typ: "dragons"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.SmartSearch(context.Background(), tc.query, tc.typ, 5)
			if !apperror.IsCode(err, apperror.CodeValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}
