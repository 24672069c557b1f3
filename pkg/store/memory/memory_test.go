package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/store"
	"github.com/google/go-cmp/cmp"
)

func loadFixture(t *testing.T) *Store {
	t.Helper()
	s, err := LoadFile("testdata/world.json")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return s
}

func TestLoad_RepairsTrailingCommas(t *testing.T) {
	s := loadFixture(t)
	w := s.World()
	if len(w.Factions) != 3 || len(w.Conflicts) != 1 {
		t.Fatalf("world = %d factions, %d conflicts", len(w.Factions), len(w.Conflicts))
	}
	if ref, ok := w.Conflicts[0].Participants[1].Faction(); !ok || ref.Name != "Ashen Cult" {
		t.Fatalf("participant = %+v", w.Conflicts[0].Participants[1])
	}
}

func TestLoad_Unrecoverable(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"factions": [{"id": "x"}]}`)); err == nil {
		t.Fatal("expected error for wrong field type")
	}
}

func TestSearchFuzzyCombined_PrefixFindsFullName(t *testing.T) {
	s := New(common.World{NPCs: []common.NPC{{ID: 1, Name: "Elena Brightforge"}, {ID: 2, Name: "Gareth"}}})

	got, err := s.SearchFuzzyCombined(context.Background(), "Elea", search.DefaultParams())
	if err != nil {
		t.Fatalf("SearchFuzzyCombined() error = %v", err)
	}
	want := []common.SearchHit{{ID: 1, Name: "Elena Brightforge", Table: common.TableNPCs}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hits mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchFuzzyCombined_ExactNameFirst(t *testing.T) {
	s := New(common.World{
		NPCs:     []common.NPC{{ID: 1, Name: "Aaron Gareth"}, {ID: 2, Name: "Gareth"}, {ID: 3, Name: "Garett"}},
		Factions: []common.Faction{{ID: 1, Name: "Gareth's Men"}},
	})

	got, err := s.SearchFuzzyCombined(context.Background(), "gareth", search.DefaultParams())
	if err != nil {
		t.Fatalf("SearchFuzzyCombined() error = %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("hits = %v", got)
	}
	if got[0].ID != 2 || got[0].Table != common.TableNPCs {
		t.Fatalf("top hit = %+v, want npc 2", got[0])
	}
}

func TestSearchFuzzyCombined_Limit(t *testing.T) {
	s := loadFixture(t)
	p := search.DefaultParams()
	p.Limit = 1
	p.SimilarityThreshold = 0.01
	got, _ := s.SearchFuzzyCombined(context.Background(), "forge", p)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestScore_NothingMatches(t *testing.T) {
	if _, ok := Score("zzzz", "Elena Brightforge", search.DefaultParams()); ok {
		t.Fatal("unexpected match")
	}
	p := search.DefaultParams()
	p.PhoneticStrength = 0
	p.MaxLevenshtein = -1
	if _, ok := Score("elea", "Elena Brightforge", p); ok {
		t.Fatal("match with lexical tiers disabled")
	}
}

func TestSoundex(t *testing.T) {
	tests := map[string]string{
		"Robert":   "R163",
		"Rupert":   "R163",
		"Ashcraft": "A261",
		"Tymczak":  "T522",
		"Pfister":  "P236",
		"Elea":     "E400",
		"":         "",
		"42":       "",
	}
	for in, want := range tests {
		if got := Soundex(in); got != want {
			t.Fatalf("Soundex(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrigramSimilarity(t *testing.T) {
	if got := TrigramSimilarity("Gareth", "gareth"); got != 1 {
		t.Fatalf("identical similarity = %v", got)
	}
	if got := TrigramSimilarity("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint similarity = %v", got)
	}
	got := TrigramSimilarity("elea", "elena brightforge")
	if got <= 0 || got >= 0.3 {
		t.Fatalf("partial similarity = %v", got)
	}
}

func TestHydrate(t *testing.T) {
	s := loadFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		hit  common.SearchHit
		want common.Projection
	}{
		{
			name: "npc uses current site",
			hit:  common.SearchHit{ID: 1, Name: "Elena Brightforge", Table: common.TableNPCs},
			want: common.Projection{ID: 1, Name: "Elena Brightforge", SourceTable: common.TableNPCs, Occupation: "blacksmith", Location: "Forgehall"},
		},
		{
			name: "faction",
			hit:  common.SearchHit{ID: 2, Name: "Ashen Cult", Table: common.TableFactions},
			want: common.Projection{ID: 2, Name: "Ashen Cult", SourceTable: common.TableFactions, Type: "cult", Alignment: "chaotic_evil"},
		},
		{
			name: "quest",
			hit:  common.SearchHit{ID: 1, Name: "Embers Beneath", Table: common.TableQuests},
			want: common.Projection{ID: 1, Name: "Embers Beneath", SourceTable: common.TableQuests, QuestType: "main", Urgency: "urgent"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Hydrate(ctx, tc.hit)
			if err != nil {
				t.Fatalf("Hydrate() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("projection mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := s.Hydrate(ctx, common.SearchHit{ID: 99, Table: common.TableNPCs})
	if !apperror.IsCode(err, apperror.CodeNotFound) {
		t.Fatalf("missing npc error = %v, want not_found", err)
	}
}

func TestNearest(t *testing.T) {
	s := New(common.World{})
	ctx := context.Background()
	_ = s.Upsert(ctx, store.Document{Table: common.TableNPCs, ID: 1, Name: "A"}, []float32{1, 0})
	_ = s.Upsert(ctx, store.Document{Table: common.TableNPCs, ID: 2, Name: "B"}, []float32{0, 1})
	_ = s.Upsert(ctx, store.Document{Table: common.TableNPCs, ID: 3, Name: "C"}, []float32{1, 1})
	_ = s.Upsert(ctx, store.Document{Table: common.TableFactions, ID: 4, Name: "D"}, []float32{1, 0})

	got, err := s.Nearest(ctx, common.TableNPCs, []float32{1, 0.1}, 2)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(got) != 2 || got[0].Hit.ID != 1 || got[1].Hit.ID != 3 {
		t.Fatalf("neighbours = %+v", got)
	}

	if _, err := s.Nearest(ctx, common.TableNPCs, []float32{1}, 2); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestDocuments(t *testing.T) {
	s := loadFixture(t)
	docs, err := s.Documents(context.Background())
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 3+2+2 {
		t.Fatalf("documents = %d, want 7", len(docs))
	}
	if docs[0].Table != common.TableFactions || docs[3].Table != common.TableNPCs {
		t.Fatalf("unexpected order: %+v", docs)
	}
}
