package distribution

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCountBy_CanonicalFactionTypes(t *testing.T) {
	types := []string{"guild", "guild", "cult", "tribe"}

	got := Strings(types, "guild", "cult", "tribe", "noble_house")

	want := Report{
		{Key: "guild", Count: 2, Percentage: 50},
		{Key: "cult", Count: 1, Percentage: 25},
		{Key: "tribe", Count: 1, Percentage: 25},
		{Key: "noble_house", Count: 0, Percentage: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CountBy() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"noble_house"}, got.Underrepresented(DefaultQuantile)); diff != "" {
		t.Fatalf("Underrepresented() mismatch (-want +got):\n%s", diff)
	}
}

func TestCountBy_SumEqualsLengthWithoutCanonical(t *testing.T) {
	type npc struct{ occupation string }
	tests := []struct {
		name  string
		items []npc
	}{
		{name: "empty", items: nil},
		{name: "single", items: []npc{{"smith"}}},
		{name: "mixed", items: []npc{{"smith"}, {"guard"}, {"smith"}, {""}, {"priest"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := CountBy(tc.items, func(n npc) string { return n.occupation })
			if r.Total() != len(tc.items) {
				t.Fatalf("sum(count) = %d, want %d", r.Total(), len(tc.items))
			}
		})
	}
}

func TestCountBy_IgnoresKeysOutsideCanonical(t *testing.T) {
	r := Strings([]string{"guild", "pirates"}, "guild", "cult")
	if _, ok := r.Get("pirates"); ok {
		t.Fatal("non-canonical key present")
	}
	b, _ := r.Get("guild")
	if b.Percentage != 50 {
		t.Fatalf("guild percentage = %v, want 50", b.Percentage)
	}
}

func TestCountBy_EmptyInputHasZeroPercent(t *testing.T) {
	r := Strings(nil, "main", "side")
	want := Report{{Key: "main"}, {Key: "side"}}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUnderrepresented(t *testing.T) {
	tests := []struct {
		name     string
		report   Report
		quantile float64
		want     []string
	}{
		{name: "empty", report: nil, quantile: 0.25, want: nil},
		{name: "one key", report: Report{{Key: "a", Percentage: 100}}, quantile: 0.25, want: []string{"a"}},
		{
			name: "ties keep report order",
			report: Report{
				{Key: "a", Percentage: 40},
				{Key: "b", Percentage: 10},
				{Key: "c", Percentage: 10},
				{Key: "d", Percentage: 40},
				{Key: "e", Percentage: 0},
			},
			quantile: 0.25,
			want:     []string{"e", "b"},
		},
		{
			name:     "invalid quantile uses default",
			report:   Report{{Key: "a", Percentage: 1}, {Key: "b", Percentage: 0}},
			quantile: 7,
			want:     []string{"b"},
		},
		{
			name:     "half",
			report:   Report{{Key: "a", Percentage: 3}, {Key: "b", Percentage: 2}, {Key: "c", Percentage: 1}, {Key: "d", Percentage: 0}},
			quantile: 0.5,
			want:     []string{"d", "c"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.report.Underrepresented(tc.quantile)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	type conflict struct{ natures []string }
	got := Flatten([]conflict{{[]string{"political", "military"}}, {nil}, {[]string{"mystical"}}}, func(c conflict) []string { return c.natures })
	if diff := cmp.Diff([]string{"political", "military", "mystical"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
