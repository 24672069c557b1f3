package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/config"
	mid "github.com/MMMikeM/DND-Campaign-sub000/internal/server/middleware"
	"github.com/MMMikeM/DND-Campaign-sub000/internal/storage"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/campaign"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/query"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := config.Default()
	cfg.DataFile = "../../pkg/store/memory/testdata/world.json"
	b, err := storage.Open(t.Context(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(b.Close)
	return New(&mid.App{Campaign: b.Service(cfg, nil, logger.Nop()), Log: logger.Nop()})
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

type errorBody struct {
	Message  string            `json:"message"`
	Code     apperror.Code     `json:"code"`
	Metadata map[string]string `json:"metadata"`
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestSearch(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/search?q=Elea&type=npcs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	res := decode[query.Result](t, rec)
	if res.Method != query.MethodFuzzy || len(res.Results) != 1 || res.Results[0].Name != "Elena Brightforge" {
		t.Fatalf("result = %+v", res)
	}
	if res.Results[0].Location != "Forgehall" {
		t.Fatalf("location = %q, want the current site", res.Results[0].Location)
	}

	rec = do(t, e, http.MethodGet, "/api/search?q=Xylophone&type=quests", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	res = decode[query.Result](t, rec)
	if res.Method != query.MethodNone || len(res.Results) != 0 {
		t.Fatalf("result = %+v, want none", res)
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	e := newTestServer(t)
	for _, target := range []string{
		"/api/search?type=npcs",
		"/api/search?q=Elena&type=dragons",
		"/api/search?q=Elena&type=npcs&limit=many",
		"/api/search?q=Elena&type=npcs&limit=500",
	} {
		rec := do(t, e, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
		if body := decode[errorBody](t, rec); body.Code != apperror.CodeValidation {
			t.Fatalf("%s: code = %q", target, body.Code)
		}
	}
}

func TestGaps(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/gaps/quests", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	report := decode[gaps.Report](t, rec)
	if report.Domain != gaps.DomainQuests {
		t.Fatalf("domain = %q", report.Domain)
	}
	var dims []gaps.Dimension
	for _, s := range report.Sections {
		dims = append(dims, s.Dimension)
	}
	if diff := cmp.Diff(gaps.Dimensions(gaps.DomainQuests), dims); diff != "" {
		t.Fatalf("dimensions mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, e, http.MethodGet, "/api/gaps/dragons", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = do(t, e, http.MethodGet, "/api/gaps", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	all := decode[struct {
		Reports []gaps.Report `json:"reports"`
	}](t, rec)
	if len(all.Reports) != len(gaps.Domains) {
		t.Fatalf("reports = %d, want %d", len(all.Reports), len(gaps.Domains))
	}
}

func TestFactionSuggestions(t *testing.T) {
	e := newTestServer(t)

	// Trailing comma and unquoted key, as models tend to write.
	rec := do(t, e, http.MethodPost, "/api/suggestions/faction", `{name: "Iron Guilds", "alignment_hint": "evil",}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	out := decode[campaign.FactionContext](t, rec)
	if out.Hints.Name != "Iron Guilds" {
		t.Fatalf("hints = %+v", out.Hints)
	}
	if len(out.NameMatches) == 0 || out.NameMatches[0].Name != "Iron Guild" {
		t.Fatalf("name matches = %+v", out.NameMatches)
	}
	if len(out.Suggestions.PotentialAllies) == 0 || out.Suggestions.PotentialAllies[0].Entity.Name != "Ashen Cult" {
		t.Fatalf("allies = %+v", out.Suggestions.PotentialAllies)
	}
	hooks := out.Suggestions.NarrativeHooks
	if len(hooks) == 0 || hooks[len(hooks)-1].Category != "general" {
		t.Fatalf("hooks = %+v", hooks)
	}
}

func TestFactionSuggestions_Invalid(t *testing.T) {
	e := newTestServer(t)
	for name, body := range map[string]string{
		"missing name": `{"type_hint": "guild"}`,
		"blank name":   `{"name": "   "}`,
		"long hint":    `{"name": "A", "role_hint": "` + strings.Repeat("x", 100) + `"}`,
	} {
		rec := do(t, e, http.MethodPost, "/api/suggestions/faction", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestFactionHintsSchema(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/schema/faction-hints", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	schema := decode[struct {
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}](t, rec)
	if diff := cmp.Diff([]string{"name"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{"name", "type_hint", "location_hint", "alignment_hint", "role_hint"} {
		if _, ok := schema.Properties[key]; !ok {
			t.Fatalf("schema lacks %q: %v", key, schema.Properties)
		}
	}
}
