// Package suggest proposes relationships and narrative hooks for a new
// faction from creation hints, the existing world and a gap report.
package suggest

import (
	"fmt"
	"strings"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/go-playground/validator"
)

// Hints describe the faction about to be created. Every hint is optional.
type Hints struct {
	Name          string `json:"name" validate:"required,max=120" jsonschema_description:"Name for the new faction"`
	TypeHint      string `json:"type_hint,omitempty" validate:"max=80" jsonschema_description:"Type of faction (military, religious, trade, criminal, etc.)"`
	LocationHint  string `json:"location_hint,omitempty" validate:"max=120" jsonschema_description:"Where they're based or operate"`
	AlignmentHint string `json:"alignment_hint,omitempty" validate:"max=80" jsonschema_description:"Faction alignment preference"`
	RoleHint      string `json:"role_hint,omitempty" validate:"max=80" jsonschema_description:"Role in campaign (ally, enemy, neutral, etc.)"`
}

var validate = validator.New()

// Validate checks h and reports violations as a validation error.
func (h Hints) Validate() error {
	if err := validate.Struct(h); err != nil {
		return apperror.Wrap(apperror.CodeValidation, "invalid faction hints", err)
	}
	if strings.TrimSpace(h.Name) == "" {
		return apperror.New(apperror.CodeValidation, "invalid faction hints: name must not be blank")
	}
	return nil
}

// Config tunes the generator.
type Config struct {
	// Cap is the maximum number of entries per category.
	Cap                int     `json:"cap" env:"SUGGEST_CAP" envDefault:"3"`
	AlignmentThreshold float64 `json:"alignmentThreshold" env:"SUGGEST_ALIGNMENT_THRESHOLD" envDefault:"0.8"`
	TypeThreshold      float64 `json:"typeThreshold" env:"SUGGEST_TYPE_THRESHOLD" envDefault:"0.75"`
	LocationThreshold  float64 `json:"locationThreshold" env:"SUGGEST_LOCATION_THRESHOLD" envDefault:"0.7"`
	RoleThreshold      float64 `json:"roleThreshold" env:"SUGGEST_ROLE_THRESHOLD" envDefault:"0.7"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Cap:                3,
		AlignmentThreshold: 0.8,
		TypeThreshold:      0.75,
		LocationThreshold:  0.7,
		RoleThreshold:      0.7,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Cap <= 0 {
		c.Cap = d.Cap
	}
	fix := func(v *float64, def float64) {
		if *v <= 0 || *v > 1 {
			*v = def
		}
	}
	fix(&c.AlignmentThreshold, d.AlignmentThreshold)
	fix(&c.TypeThreshold, d.TypeThreshold)
	fix(&c.LocationThreshold, d.LocationThreshold)
	fix(&c.RoleThreshold, d.RoleThreshold)
	return c
}

// Pool is the set of existing entities suggestions may point at.
type Pool struct {
	Factions []common.Faction `json:"factions"`
	Regions  []common.Region  `json:"regions"`
}

// PoolFromWorld takes factions and regions of w, in order.
func PoolFromWorld(w common.World) Pool {
	return Pool{Factions: w.Factions, Regions: w.Regions}
}

// Entry is one suggestion.
type Entry struct {
	Entity       common.Ref `json:"entity"`
	Kind         string     `json:"kind"`
	Reasoning    string     `json:"reasoning"`
	Relationship string     `json:"suggestedRelationship,omitempty"`
	Competition  string     `json:"competitionLevel,omitempty"`
}

// Hook groups narrative hooks by the gap dimension they come from.
type Hook struct {
	Category string   `json:"category"`
	Hooks    []string `json:"hooks"`
}

// Set is the generator output. Lists are capped and hold each entity at
// most once.
type Set struct {
	PotentialAllies        []Entry `json:"potentialAllies"`
	PotentialRivals        []Entry `json:"potentialRivals"`
	TerritorialOverlap     []Entry `json:"territorialOverlap"`
	NarrativeOpportunities []Entry `json:"narrativeOpportunities"`
	NarrativeHooks         []Hook  `json:"narrativeHooks"`
}

const (
	kindFaction = "faction"
	kindArea    = "area"
)

// Generator builds suggestion sets. It holds no state between calls.
type Generator struct {
	cfg Config
	log *logger.Logger
}

func NewGenerator(cfg Config, log *logger.Logger) *Generator {
	return &Generator{cfg: cfg.normalized(), log: log}
}

// Suggest derives a Set from hints, the candidate pool and a faction gap
// report. Hint driven entries come first, gap driven ones are appended
// after them. The output depends only on the inputs and their order.
func (g *Generator) Suggest(h Hints, pool Pool, report gaps.Report) (Set, error) {
	if err := h.Validate(); err != nil {
		return Set{}, err
	}

	var (
		allies, rivals, territory, opportunities list
		cfg                                      = g.cfg
	)
	candidates := candidateFactions(pool.Factions, h.Name)

	if hint := strings.TrimSpace(h.AlignmentHint); hint != "" {
		keys := match(hint, alignmentVocabulary, cfg.AlignmentThreshold)
		var against []string
		for _, k := range keys {
			against = append(against, opposite(k)...)
		}
		// A faction that clashes on any axis is a rival even when it shares
		// another one.
		for _, f := range candidates {
			own := match(f.Alignment, alignmentVocabulary, cfg.AlignmentThreshold)
			if clash := intersect(against, own); len(clash) > 0 {
				rivals.add(Entry{
					Entity:       f.Ref(),
					Kind:         kindFaction,
					Reasoning:    fmt.Sprintf("Its %s alignment stands against the %s leanings of %s.", f.Alignment, hint, h.Name),
					Relationship: "ideological_rivalry",
				})
				continue
			}
			if shared := intersect(keys, own); len(shared) > 0 {
				allies.add(Entry{
					Entity:       f.Ref(),
					Kind:         kindFaction,
					Reasoning:    fmt.Sprintf("Shares a similar public alignment (%s) with the %s outlook of %s.", f.Alignment, strings.Join(shared, " "), h.Name),
					Relationship: "ideological_alliance",
				})
			}
		}
		g.log.Debug("Alignment hint", "hint", hint, "keywords", keys)
	}

	if hint := strings.TrimSpace(h.TypeHint); hint != "" {
		keys := match(hint, typeVocabulary, cfg.TypeThreshold)
		for _, f := range candidates {
			own := match(f.Type, typeVocabulary, cfg.TypeThreshold)
			if shared := intersect(keys, own); len(shared) > 0 {
				allies.add(Entry{
					Entity:       f.Ref(),
					Kind:         kindFaction,
					Reasoning:    fmt.Sprintf("Both are '%s' type factions, suggesting shared interests.", shared[0]),
					Relationship: "professional_alliance",
				})
			}
		}
		for _, k := range keys {
			for _, f := range candidates {
				own := match(f.Type, typeVocabulary, cfg.TypeThreshold)
				if rival := intersect(competitors(k), own); len(rival) > 0 {
					rivals.add(Entry{
						Entity:       f.Ref(),
						Kind:         kindFaction,
						Reasoning:    fmt.Sprintf("A %s faction competes with %s interests.", rival[0], k),
						Relationship: "competition",
					})
				}
			}
		}
		g.log.Debug("Type hint", "hint", hint, "keywords", keys)
	}

	if hint := strings.TrimSpace(h.LocationHint); hint != "" {
		holders := areaHolders(pool)
		for _, r := range pool.Regions {
			for _, a := range r.Areas {
				if !nameMatches(hint, a.Name, cfg.LocationThreshold) {
					continue
				}
				active := holders[a.ID]
				names := "None"
				if len(active) > 0 {
					names = strings.Join(active, ", ")
				}
				territory.add(Entry{
					Entity:      common.Ref{ID: a.ID, Name: a.Name},
					Kind:        kindArea,
					Reasoning:   fmt.Sprintf("The area '%s' is a potential base of operations. Factions already active here: %s.", a.Name, names),
					Competition: competitionLevel(len(active)),
				})
			}
		}
	}

	if hint := strings.TrimSpace(h.RoleHint); hint != "" {
		for _, role := range match(hint, roleVocabulary, cfg.RoleThreshold) {
			roleOpportunities(&opportunities, role, h.Name, allies.capped(cfg.Cap), rivals.capped(cfg.Cap))
		}
	}

	gapCandidates(report, pool, h.Name, &allies, &territory, &opportunities)

	set := Set{
		PotentialAllies:        allies.capped(cfg.Cap),
		PotentialRivals:        rivals.capped(cfg.Cap),
		TerritorialOverlap:     territory.capped(cfg.Cap),
		NarrativeOpportunities: opportunities.capped(cfg.Cap),
		NarrativeHooks:         hooks(report, h.Name),
	}
	g.log.Debug("Faction suggestions",
		"name", h.Name,
		"allies", len(set.PotentialAllies),
		"rivals", len(set.PotentialRivals),
		"territory", len(set.TerritorialOverlap),
		"opportunities", len(set.NarrativeOpportunities),
	)
	return set, nil
}

// list keeps entries in insertion order, once per entity.
type list struct {
	entries []Entry
	seen    map[common.Ref]struct{}
}

func (l *list) add(e Entry) {
	if l.seen == nil {
		l.seen = make(map[common.Ref]struct{})
	}
	if _, ok := l.seen[e.Entity]; ok {
		return
	}
	l.seen[e.Entity] = struct{}{}
	l.entries = append(l.entries, e)
}

func (l *list) capped(n int) []Entry {
	out := l.entries
	if len(out) > n {
		out = out[:n]
	}
	return append([]Entry{}, out...)
}

// candidateFactions drops the faction being created if it already exists.
func candidateFactions(factions []common.Faction, name string) []common.Faction {
	out := make([]common.Faction, 0, len(factions))
	for _, f := range factions {
		if strings.EqualFold(strings.TrimSpace(f.Name), strings.TrimSpace(name)) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// areaHolders returns the names of factions with influence or a
// headquarters in each area, in faction order.
func areaHolders(pool Pool) map[int64][]string {
	siteArea := make(map[int64]int64)
	for _, r := range pool.Regions {
		for _, a := range r.Areas {
			for _, s := range a.Sites {
				siteArea[s.ID] = a.ID
			}
		}
	}

	out := make(map[int64][]string)
	for _, f := range pool.Factions {
		areas := make(map[int64]struct{})
		for _, inf := range f.Influence {
			switch inf.Place.Kind() {
			case common.PlaceArea:
				areas[inf.Place.Ref().ID] = struct{}{}
			case common.PlaceSite:
				if a, ok := siteArea[inf.Place.Ref().ID]; ok {
					areas[a] = struct{}{}
				}
			}
		}
		for _, hq := range f.Headquarters {
			if a, ok := siteArea[hq.ID]; ok {
				areas[a] = struct{}{}
			}
		}
		for a := range areas {
			out[a] = append(out[a], f.Name)
		}
	}
	return out
}

func competitionLevel(active int) string {
	switch {
	case active == 0:
		return "low"
	case active < 3:
		return "moderate"
	default:
		return "high"
	}
}

func roleOpportunities(out *list, role, name string, allies, rivals []Entry) {
	var (
		from     []Entry
		template string
	)
	switch role {
	case "ally", "patron":
		from, template = allies, "%[1]s could introduce the party to %[2]s, opening a path to a wider alliance."
	case "enemy", "rival":
		from, template = rivals, "%[2]s could become an unlikely partner of the party against %[1]s."
	case "neutral":
		from, template = append(append([]Entry{}, rivals...), allies...), "%[1]s could broker a fragile truce between %[2]s and its rivals."
	}
	for _, e := range from {
		out.add(Entry{
			Entity:    e.Entity,
			Kind:      e.Kind,
			Reasoning: fmt.Sprintf(template, name, e.Entity.Name),
		})
	}
}

// gapCandidates appends the entities named by gap findings: factions
// lacking diplomacy as allies, areas as territory and every other
// faction as a narrative opportunity. Entities outside the pool are
// skipped.
func gapCandidates(report gaps.Report, pool Pool, name string, allies, territory, opportunities *list) {
	factions := make(map[common.Ref]struct{})
	for _, f := range candidateFactions(pool.Factions, name) {
		factions[f.Ref()] = struct{}{}
	}
	areas := make(map[common.Ref]struct{})
	for _, r := range pool.Regions {
		for _, a := range r.Areas {
			areas[common.Ref{ID: a.ID, Name: a.Name}] = struct{}{}
		}
	}

	for _, s := range report.Sections {
		for _, ref := range s.Entities {
			reason := "Addresses campaign gap: " + findingFor(s, ref)
			if _, ok := areas[ref]; ok {
				territory.add(Entry{Entity: ref, Kind: kindArea, Reasoning: reason, Competition: "low"})
				continue
			}
			if _, ok := factions[ref]; !ok {
				continue
			}
			e := Entry{Entity: ref, Kind: kindFaction, Reasoning: reason}
			if s.Dimension == gaps.DiplomaticOpenings {
				e.Relationship = "first_contact"
				allies.add(e)
				continue
			}
			opportunities.add(e)
		}
	}
}

// findingFor picks the finding of s that names ref, or the first one.
func findingFor(s gaps.Section, ref common.Ref) string {
	for _, f := range s.Findings {
		if strings.Contains(f, ref.Name) {
			return f
		}
	}
	if len(s.Findings) > 0 {
		return s.Findings[0]
	}
	return string(s.Dimension)
}

// hooks returns one hook group per non-empty gap dimension followed by the
// general hooks.
func hooks(report gaps.Report, name string) []Hook {
	var out []Hook
	for _, s := range report.Sections {
		if len(s.Findings) == 0 {
			continue
		}
		out = append(out, Hook{Category: string(s.Dimension), Hooks: append([]string{}, s.Findings...)})
	}
	return append(out, Hook{
		Category: "general",
		Hooks: []string{
			fmt.Sprintf("The creation of '%s' could be a direct response to the actions of an existing faction.", name),
			fmt.Sprintf("'%s' could be a splinter group from an established faction, creating immediate internal conflict.", name),
			"This new faction could be the only one aware of a brewing, undiscovered threat.",
		},
	})
}
