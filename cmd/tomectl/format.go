package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/campaign"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/query"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"
)

const (
	formatHuman = "human"
	formatJSON  = "json"
)

// render writes v as indented JSON or through human.
func render(w io.Writer, format string, v any, human func(io.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatHuman:
		human(w)
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatHuman, formatJSON)
}

func writeSearch(w io.Writer, res query.Result) {
	fmt.Fprintf(w, "%q via %s: %d result(s)\n", res.Query, res.Method, len(res.Results))
	for i, p := range res.Results {
		var extra []string
		for _, v := range []string{p.Type, p.Alignment, p.Occupation, p.Location, p.QuestType} {
			if v != "" {
				extra = append(extra, v)
			}
		}
		fmt.Fprintf(w, "%2d. %s (%s #%d)", i+1, p.Name, p.SourceTable, p.ID)
		if len(extra) > 0 {
			fmt.Fprintf(w, " %s", strings.Join(extra, ", "))
		}
		fmt.Fprintln(w)
	}
}

func writeReport(w io.Writer, r gaps.Report) {
	fmt.Fprintf(w, "== %s ==\n", r.Domain)
	if r.Empty() {
		fmt.Fprintln(w, "No gaps found.")
		return
	}
	for _, s := range r.Sections {
		if len(s.Findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", s.Dimension)
		for _, f := range s.Findings {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}

func writeEntries(w io.Writer, title string, entries []suggest.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(w, "  - %s: %s\n", e.Entity.Name, e.Reasoning)
	}
}

func writeFactionContext(w io.Writer, fc campaign.FactionContext) {
	fmt.Fprintf(w, "Suggestions for %q\n", fc.Hints.Name)
	if len(fc.NameMatches) > 0 {
		names := make([]string, len(fc.NameMatches))
		for i, h := range fc.NameMatches {
			names[i] = h.Name
		}
		fmt.Fprintf(w, "Similar existing factions: %s\n", strings.Join(names, ", "))
	}
	s := fc.Suggestions
	writeEntries(w, "Potential allies", s.PotentialAllies)
	writeEntries(w, "Potential rivals", s.PotentialRivals)
	writeEntries(w, "Territorial overlap", s.TerritorialOverlap)
	writeEntries(w, "Narrative opportunities", s.NarrativeOpportunities)
	for _, h := range s.NarrativeHooks {
		fmt.Fprintf(w, "Hooks (%s):\n", h.Category)
		for _, line := range h.Hooks {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
}
