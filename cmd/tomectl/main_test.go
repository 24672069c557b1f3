package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/storage"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/query"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"
)

const worldFixture = "../../pkg/store/memory/testdata/world.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dataFile, databaseURL, debug, outputFormat = "", "", false, formatHuman
	searchType, searchLimit = common.TableNPCs, 0
	suggestHints = suggest.Hints{}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "--data", worldFixture, "search", "Elea")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, `"Elea" via fuzzy: 1 result(s)`) || !strings.Contains(out, "Elena Brightforge (npcs #1) blacksmith, Forgehall") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = run(t, "--data", worldFixture, "--format", "json", "search", "Ashen", "--type", "factions")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	var res query.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if res.Method != query.MethodFuzzy || res.Results[0].Name != "Ashen Cult" {
		t.Fatalf("result = %+v", res)
	}
}

func TestGapsCommand(t *testing.T) {
	out, err := run(t, "--data", worldFixture, "gaps")
	if err != nil {
		t.Fatalf("gaps error = %v", err)
	}
	for _, d := range gaps.Domains {
		if !strings.Contains(out, "== "+string(d)+" ==") {
			t.Fatalf("output lacks %s report:\n%s", d, out)
		}
	}

	out, err = run(t, "--data", worldFixture, "--format", "json", "gaps", "conflicts")
	if err != nil {
		t.Fatalf("gaps error = %v", err)
	}
	var r gaps.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if r.Domain != gaps.DomainConflicts {
		t.Fatalf("domain = %q", r.Domain)
	}

	if _, err := run(t, "--data", worldFixture, "gaps", "dragons"); err == nil {
		t.Fatal("expected error for unknown domain")
	}
}

func TestSuggestCommand(t *testing.T) {
	out, err := run(t, "--data", worldFixture, "suggest", "Iron Guilds", "--alignment", "evil")
	if err != nil {
		t.Fatalf("suggest error = %v", err)
	}
	for _, want := range []string{
		`Suggestions for "Iron Guilds"`,
		"Similar existing factions: Iron Guild",
		"Potential allies:\n  - Ashen Cult:",
		"Hooks (general):",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	if _, err := run(t, "search", "Elena"); !errors.Is(err, storage.ErrNoBackend) {
		t.Fatalf("error = %v, want ErrNoBackend", err)
	}
	if _, err := run(t, "--data", worldFixture, "--format", "yaml", "search", "Elena"); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("error = %v, want unknown format", err)
	}
	if _, err := run(t, "--data", worldFixture, "embed"); err == nil || !strings.Contains(err.Error(), "AI_ADAPTER") {
		t.Fatalf("error = %v, want missing adapter", err)
	}
	if _, err := run(t, "--data", worldFixture, "migrate"); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("error = %v, want missing database url", err)
	}
}

func TestWriteReport_Empty(t *testing.T) {
	var b bytes.Buffer
	writeReport(&b, gaps.Report{Domain: gaps.DomainQuests})
	if got := b.String(); got != "== quests ==\nNo gaps found.\n" {
		t.Fatalf("output = %q", got)
	}
}
