package suggest

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// keyword is one entry of a hint vocabulary.
type keyword struct {
	Key     string
	Aliases []string
}

var alignmentVocabulary = []keyword{
	{Key: "good"},
	{Key: "evil"},
	{Key: "lawful"},
	{Key: "chaotic"},
	{Key: "neutral"},
}

var typeVocabulary = []keyword{
	{Key: "guild", Aliases: []string{"guilds", "artisans", "craftsmen"}},
	{Key: "cult", Aliases: []string{"cultists", "sect"}},
	{Key: "tribe", Aliases: []string{"clan", "tribal"}},
	{Key: "noble_house", Aliases: []string{"noble", "nobility", "aristocracy"}},
	{Key: "mercantile", Aliases: []string{"trade", "merchant", "merchants", "commerce"}},
	{Key: "religious", Aliases: []string{"church", "temple", "faith", "clergy"}},
	{Key: "military", Aliases: []string{"army", "soldiers", "mercenary", "mercenaries"}},
	{Key: "criminal", Aliases: []string{"thieves", "crime", "smugglers", "underworld"}},
	{Key: "political", Aliases: []string{"council", "government", "politics"}},
	{Key: "arcane", Aliases: []string{"magic", "mages", "wizards", "arcanists"}},
}

var roleVocabulary = []keyword{
	{Key: "ally", Aliases: []string{"friend", "friendly", "supporter", "helper"}},
	{Key: "enemy", Aliases: []string{"villain", "antagonist", "hostile", "foe"}},
	{Key: "rival", Aliases: []string{"competitor", "opponent"}},
	{Key: "neutral", Aliases: []string{"mediator", "broker", "independent"}},
	{Key: "patron", Aliases: []string{"sponsor", "benefactor", "employer"}},
}

// opposedAlignments pairs alignment keywords that turn a candidate into a
// rival.
var opposedAlignments = [][2]string{
	{"good", "evil"},
	{"lawful", "chaotic"},
}

// competingTypes lists, per faction type, the types it competes with.
var competingTypes = []struct {
	Type       string
	Competitor []string
}{
	{Type: "criminal", Competitor: []string{"military", "political"}},
	{Type: "military", Competitor: []string{"criminal", "tribe"}},
	{Type: "political", Competitor: []string{"criminal", "noble_house"}},
	{Type: "noble_house", Competitor: []string{"political", "mercantile"}},
	{Type: "mercantile", Competitor: []string{"guild", "criminal"}},
	{Type: "guild", Competitor: []string{"mercantile"}},
	{Type: "religious", Competitor: []string{"cult", "arcane"}},
	{Type: "cult", Competitor: []string{"religious"}},
	{Type: "arcane", Competitor: []string{"religious"}},
	{Type: "tribe", Competitor: []string{"military"}},
}

func opposite(key string) []string {
	var out []string
	for _, pair := range opposedAlignments {
		switch key {
		case pair[0]:
			out = append(out, pair[1])
		case pair[1]:
			out = append(out, pair[0])
		}
	}
	return out
}

func competitors(key string) []string {
	for _, c := range competingTypes {
		if c.Type == key {
			return c.Competitor
		}
	}
	return nil
}

// tokens lower cases s and returns it whole plus its words.
func tokens(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	out := []string{s}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) > 1 || (len(words) == 1 && words[0] != s) {
		out = append(out, words...)
	}
	return out
}

// similarity is 1 - levenshtein/len of the longer string, in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// match returns the vocabulary keys any token of text is at least
// threshold similar to, in vocabulary order.
func match(text string, vocabulary []keyword, threshold float64) []string {
	toks := tokens(text)
	if len(toks) == 0 {
		return nil
	}
	var out []string
	for _, kw := range vocabulary {
		if matchesKeyword(toks, kw, threshold) {
			out = append(out, kw.Key)
		}
	}
	return out
}

func matchesKeyword(toks []string, kw keyword, threshold float64) bool {
	for _, t := range toks {
		if similarity(t, kw.Key) >= threshold {
			return true
		}
		for _, alias := range kw.Aliases {
			if similarity(t, alias) >= threshold {
				return true
			}
		}
	}
	return false
}

// minPlaceWord skips articles and other short words in place names.
const minPlaceWord = 4

// nameMatches reports whether a place name fits a location hint: either
// contains the other, or a word pair is at least threshold similar.
func nameMatches(hint, name string, threshold float64) bool {
	h, n := strings.ToLower(strings.TrimSpace(hint)), strings.ToLower(strings.TrimSpace(name))
	if h == "" || n == "" {
		return false
	}
	if strings.Contains(n, h) || strings.Contains(h, n) {
		return true
	}
	for _, a := range tokens(h) {
		for _, b := range tokens(n) {
			if len([]rune(a)) < minPlaceWord || len([]rune(b)) < minPlaceWord {
				continue
			}
			if similarity(a, b) >= threshold {
				return true
			}
		}
	}
	return false
}

func intersect(a, b []string) []string {
	var out []string
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}
