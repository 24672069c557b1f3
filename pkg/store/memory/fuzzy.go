package memory

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/search"

	"github.com/agnivade/levenshtein"
)

type searchable struct {
	hit common.SearchHit
}

func (s *Store) searchables() []searchable {
	var out []searchable
	add := func(table string, id int64, name string) {
		out = append(out, searchable{hit: common.SearchHit{ID: id, Name: name, Table: table}})
	}
	for _, n := range s.world.NPCs {
		add(common.TableNPCs, n.ID, n.Name)
	}
	for _, f := range s.world.Factions {
		add(common.TableFactions, f.ID, f.Name)
	}
	for _, q := range s.world.Quests {
		add(common.TableQuests, q.ID, q.Name)
	}
	for _, c := range s.world.Conflicts {
		add(common.TableConflicts, c.ID, c.Name)
	}
	for _, r := range s.world.Regions {
		add(common.TableRegions, r.ID, r.Name)
		for _, a := range r.Areas {
			add(common.TableAreas, a.ID, a.Name)
			for _, site := range a.Sites {
				add(common.TableSites, site.ID, site.Name)
			}
		}
	}
	return out
}

// SearchFuzzyCombined ranks every named entity against term the way the
// search_fuzzy_combined database function does: best score first, then
// name, table and id.
func (s *Store) SearchFuzzyCombined(ctx context.Context, term string, params search.Params) ([]common.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type scored struct {
		hit   common.SearchHit
		score float64
	}
	var matches []scored
	for _, e := range s.searchables() {
		if score, ok := Score(term, e.hit.Name, params); ok {
			matches = append(matches, scored{hit: e.hit, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.hit.Name != b.hit.Name {
			return a.hit.Name < b.hit.Name
		}
		if a.hit.Table != b.hit.Table {
			return a.hit.Table < b.hit.Table
		}
		return a.hit.ID < b.hit.ID
	})

	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}
	hits := make([]common.SearchHit, len(matches))
	for i, m := range matches {
		hits[i] = m.hit
	}
	return hits, nil
}

// Score combines three signals and reports whether name matches term:
//
//   - trigram similarity weighted by FuzzyWeight, matching at
//     SimilarityThreshold or above
//   - edit distance within MaxLevenshtein against the whole name (full
//     score) or any single word of it (0.9 of the score)
//   - Soundex agreement of at least 5-PhoneticStrength positions, scored
//     below any lexical match; PhoneticStrength <= 0 disables it
//
// The score is the best of the matching signals.
func Score(term, name string, p search.Params) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(term))
	n := strings.ToLower(strings.TrimSpace(name))
	if t == "" || n == "" {
		return 0, false
	}

	var (
		best    float64
		matched bool
	)
	consider := func(score float64) {
		matched = true
		if score > best {
			best = score
		}
	}

	if sim := TrigramSimilarity(t, n); sim >= p.SimilarityThreshold && sim > 0 {
		consider(sim * p.FuzzyWeight)
	}

	if p.MaxLevenshtein >= 0 {
		editScore := func(d int) float64 {
			return 1 - float64(d)/float64(p.MaxLevenshtein+1)
		}
		if d := levenshtein.ComputeDistance(t, n); d <= p.MaxLevenshtein {
			consider(editScore(d))
		}
		for _, w := range words(n) {
			if d := levenshtein.ComputeDistance(t, w); d <= p.MaxLevenshtein {
				consider(0.9 * editScore(d))
			}
		}
	}

	if p.PhoneticStrength > 0 && len([]rune(t)) >= 3 {
		need := min(max(5-p.PhoneticStrength, 1), 4)
		code := Soundex(t)
		candidates := append([]string{n}, words(n)...)
		for _, w := range candidates {
			if diff := soundexDifference(code, Soundex(w)); diff >= need {
				consider(0.5 * float64(diff) / 4)
			}
		}
	}

	return best, matched
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TrigramSimilarity follows pg_trgm: words are lower cased, padded with two
// leading and one trailing blank, and the similarity is the share of
// distinct trigrams the two strings have in common.
func TrigramSimilarity(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

func trigrams(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range words(strings.ToLower(s)) {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			out[string(padded[i:i+3])] = struct{}{}
		}
	}
	return out
}

// soundexTable maps a..z to American Soundex digits. '0' separates runs,
// '-' (h, w) is transparent.
const soundexTable = "0123012-02245501262301-202"

// Soundex returns the four character American Soundex code of s, or ""
// when s has no ASCII letters.
func Soundex(s string) string {
	out := make([]byte, 0, 4)
	var last byte
	for _, r := range strings.ToLower(s) {
		if r < 'a' || r > 'z' {
			continue
		}
		code := soundexTable[r-'a']
		if len(out) == 0 {
			out = append(out, byte(unicode.ToUpper(r)))
			last = code
			continue
		}
		switch code {
		case '-':
		case '0':
			last = code
		default:
			if code != last {
				out = append(out, code)
				if len(out) == 4 {
					return string(out)
				}
			}
			last = code
		}
	}
	if len(out) == 0 {
		return ""
	}
	for len(out) < 4 {
		out = append(out, '0')
	}
	return string(out)
}

// soundexDifference counts equal positions of two codes, like
// fuzzystrmatch's difference().
func soundexDifference(a, b string) int {
	if len(a) != 4 || len(b) != 4 {
		return 0
	}
	n := 0
	for i := 0; i < 4; i++ {
		if a[i] == b[i] {
			n++
		}
	}
	return n
}
