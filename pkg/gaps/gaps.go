// Package gaps turns a loaded campaign world into per-domain reports of
// underrepresented categories, weak connectivity and missing cross
// references.
//
// Every analyzer is a pure function of its inputs: the same world and
// thresholds always produce the same report.
package gaps

import (
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/apperror"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/distribution"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/graph"
)

// Domain selects an analyzer.
type Domain string

const (
	DomainFactions  Domain = "factions"
	DomainNPCs      Domain = "npcs"
	DomainQuests    Domain = "quests"
	DomainConflicts Domain = "conflicts"
)

// Domains lists every analyzable domain.
var Domains = []Domain{DomainFactions, DomainNPCs, DomainQuests, DomainConflicts}

// ParseDomain validates a domain name.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", apperror.WithMetadata(
		apperror.CodeValidation,
		fmt.Sprintf("unknown gap domain %q", s),
		map[string]string{"domain": s},
	)
}

// Dimension names one section of a report.
type Dimension string

const (
	PowerVacuums             Dimension = "powerVacuums"
	AlignmentGaps            Dimension = "alignmentGaps"
	DiplomaticOpenings       Dimension = "diplomaticOpenings"
	TerritorialOpportunities Dimension = "territorialOpportunities"
	NarrativeIntegration     Dimension = "narrativeIntegration"

	ComplexityGaps        Dimension = "complexityGaps"
	PerceptionGaps        Dimension = "playerPerceptionGaps"
	FactionRepresentation Dimension = "factionRepresentationGaps"
	RelationshipGaps      Dimension = "relationshipGaps"
	RegionalDensity       Dimension = "regionalDensity"
	UrgencyBalance        Dimension = "urgencyBalance"

	QuestTypeGaps     Dimension = "questTypeGaps"
	DependencyGaps    Dimension = "dependencyGaps"
	ParticipationGaps Dimension = "participationGaps"

	StatusGaps   Dimension = "statusGaps"
	NatureGaps   Dimension = "natureGaps"
	ScopeGaps    Dimension = "scopeGaps"
	RegionalGaps Dimension = "regionalGaps"
)

// Dimensions returns the fixed, ordered dimensions of a domain's report.
func Dimensions(d Domain) []Dimension {
	switch d {
	case DomainFactions:
		return []Dimension{PowerVacuums, AlignmentGaps, DiplomaticOpenings, TerritorialOpportunities, NarrativeIntegration}
	case DomainNPCs:
		return []Dimension{ComplexityGaps, PerceptionGaps, FactionRepresentation, RelationshipGaps, RegionalDensity, UrgencyBalance, NarrativeIntegration}
	case DomainQuests:
		return []Dimension{QuestTypeGaps, UrgencyBalance, DependencyGaps, ParticipationGaps}
	case DomainConflicts:
		return []Dimension{StatusGaps, NatureGaps, ScopeGaps, ParticipationGaps, RegionalGaps, NarrativeIntegration}
	default:
		return nil
	}
}

// Thresholds are the tuning constants of the analyzers.
type Thresholds struct {
	// Quartile is the share of category keys reported as underrepresented.
	Quartile float64 `json:"quartile" env:"GAP_QUARTILE" envDefault:"0.25"`
	// ConnectionDivisor d gives floor(n*(n-1)/d) expected connections.
	ConnectionDivisor int `json:"connectionDivisor" env:"GAP_CONNECTION_DIVISOR" envDefault:"4"`
	// IntegrationFraction is the share of a population that may stay
	// outside quests and conflicts before it is reported.
	IntegrationFraction float64 `json:"integrationFraction" env:"GAP_INTEGRATION_FRACTION" envDefault:"0.5"`
	// MaxInfluencePerArea is the number of factions an area holds before
	// it counts as contested.
	MaxInfluencePerArea int `json:"maxInfluencePerArea" env:"GAP_MAX_INFLUENCE_PER_AREA" envDefault:"3"`
	MinAreasPerRegion   int `json:"minAreasPerRegion" env:"GAP_MIN_AREAS_PER_REGION" envDefault:"2"`
	MinSitesPerArea     int `json:"minSitesPerArea" env:"GAP_MIN_SITES_PER_AREA" envDefault:"3"`
	// UrgencyTooMany and UrgencyTooFew bound the percentage of quests per
	// urgency level.
	UrgencyTooMany          float64 `json:"urgencyTooMany" env:"GAP_URGENCY_TOO_MANY" envDefault:"20"`
	UrgencyTooFew           float64 `json:"urgencyTooFew" env:"GAP_URGENCY_TOO_FEW" envDefault:"10"`
	MinFactionMembers       int     `json:"minFactionMembers" env:"GAP_MIN_FACTION_MEMBERS" envDefault:"2"`
	MinConflictParticipants int     `json:"minConflictParticipants" env:"GAP_MIN_CONFLICT_PARTICIPANTS" envDefault:"2"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Quartile:                distribution.DefaultQuantile,
		ConnectionDivisor:       4,
		IntegrationFraction:     0.5,
		MaxInfluencePerArea:     3,
		MinAreasPerRegion:       2,
		MinSitesPerArea:         3,
		UrgencyTooMany:          20,
		UrgencyTooFew:           10,
		MinFactionMembers:       2,
		MinConflictParticipants: 2,
	}
}

// normalized replaces out of range values with their defaults.
func (t Thresholds) normalized() Thresholds {
	d := DefaultThresholds()
	if t.Quartile <= 0 || t.Quartile > 1 {
		t.Quartile = d.Quartile
	}
	if t.ConnectionDivisor <= 0 {
		t.ConnectionDivisor = d.ConnectionDivisor
	}
	if t.IntegrationFraction < 0 || t.IntegrationFraction > 1 {
		t.IntegrationFraction = d.IntegrationFraction
	}
	if t.MaxInfluencePerArea < 0 {
		t.MaxInfluencePerArea = d.MaxInfluencePerArea
	}
	if t.UrgencyTooMany <= 0 {
		t.UrgencyTooMany = d.UrgencyTooMany
	}
	if t.UrgencyTooFew < 0 {
		t.UrgencyTooFew = d.UrgencyTooFew
	}
	return t
}

// Section is the ordered findings of one dimension. Entities lists the
// entities the findings point at, in first mention order.
type Section struct {
	Dimension Dimension    `json:"dimension"`
	Findings  []string     `json:"findings"`
	Entities  []common.Ref `json:"entities,omitempty"`
}

// Report is the result of one analyzer. Every dimension of the domain is
// present, in Dimensions order, even without findings.
type Report struct {
	Domain        Domain                         `json:"domain"`
	Sections      []Section                      `json:"sections"`
	Distributions map[string]distribution.Report `json:"distributions,omitempty"`
	Connectivity  *graph.Connectivity            `json:"connectivity,omitempty"`
}

// Section returns the section of dim.
func (r Report) Section(dim Dimension) (Section, bool) {
	for _, s := range r.Sections {
		if s.Dimension == dim {
			return s, true
		}
	}
	return Section{}, false
}

// Findings returns the findings of dim, nil if the dimension is unknown.
func (r Report) Findings(dim Dimension) []string {
	s, _ := r.Section(dim)
	return s.Findings
}

// Empty reports whether no dimension has a finding.
func (r Report) Empty() bool {
	for _, s := range r.Sections {
		if len(s.Findings) > 0 {
			return false
		}
	}
	return true
}

// Entities returns every referenced entity across sections, deduplicated
// in section order.
func (r Report) Entities() []common.Ref {
	var (
		out  []common.Ref
		seen = make(map[common.Ref]struct{})
	)
	for _, s := range r.Sections {
		for _, ref := range s.Entities {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}

// Analyze runs the analyzer of domain.
func Analyze(domain Domain, w common.World, t Thresholds) (Report, error) {
	switch domain {
	case DomainFactions:
		return AnalyzeFactions(w, t), nil
	case DomainNPCs:
		return AnalyzeNPCs(w, t), nil
	case DomainQuests:
		return AnalyzeQuests(w, t), nil
	case DomainConflicts:
		return AnalyzeConflicts(w, t), nil
	default:
		_, err := ParseDomain(string(domain))
		return Report{}, err
	}
}

type builder struct {
	report Report
	index  map[Dimension]int
	seen   map[Dimension]map[common.Ref]struct{}
}

func newBuilder(domain Domain) *builder {
	dims := Dimensions(domain)
	b := &builder{
		report: Report{Domain: domain, Sections: make([]Section, len(dims))},
		index:  make(map[Dimension]int, len(dims)),
		seen:   make(map[Dimension]map[common.Ref]struct{}, len(dims)),
	}
	for i, d := range dims {
		b.report.Sections[i] = Section{Dimension: d, Findings: []string{}}
		b.index[d] = i
		b.seen[d] = make(map[common.Ref]struct{})
	}
	return b
}

func (b *builder) add(dim Dimension, finding string, entities ...common.Ref) {
	i, ok := b.index[dim]
	if !ok {
		return
	}
	s := &b.report.Sections[i]
	s.Findings = append(s.Findings, finding)
	for _, ref := range entities {
		if _, dup := b.seen[dim][ref]; dup {
			continue
		}
		b.seen[dim][ref] = struct{}{}
		s.Entities = append(s.Entities, ref)
	}
}

func (b *builder) distribution(name string, r distribution.Report) {
	if b.report.Distributions == nil {
		b.report.Distributions = make(map[string]distribution.Report)
	}
	b.report.Distributions[name] = r
}

func (b *builder) build() Report {
	return b.report
}

// lacking reports the underrepresented keys of r: absent keys as gaps,
// present ones with their share.
func (b *builder) lacking(dim Dimension, r distribution.Report, quartile float64, plural, field string) {
	for _, key := range r.Underrepresented(quartile) {
		bucket, _ := r.Get(key)
		if bucket.Count == 0 {
			b.add(dim, fmt.Sprintf("The world lacks %s of %s: %s.", plural, field, key))
			continue
		}
		b.add(dim, fmt.Sprintf("Only %.1f%% of %s have %s %s.", bucket.Percentage, plural, field, key))
	}
}

// connectivity measures views and reports a thin network, isolated and
// weakly connected entities.
func connectivity[E any, R any](
	b *builder,
	dim Dimension,
	views []graph.View[E, R],
	ref func(E) common.Ref,
	divisor int,
	edges string,
) graph.Connectivity {
	c := graph.Measure(views, ref, divisor)
	if c.Edges < c.Expected {
		b.add(dim, fmt.Sprintf("Underdeveloped %s network: %d of %d expected connections.", edges, c.Edges, c.Expected))
	}
	for _, r := range c.Isolated {
		b.add(dim, fmt.Sprintf("%s has no %s.", r.Name, edges), r)
	}
	for _, r := range c.Weak {
		b.add(dim, fmt.Sprintf("%s has fewer %s than expected.", r.Name, edges), r)
	}

	b.distribution("relationCount", distribution.CountBy(views, func(v graph.View[E, R]) string {
		return fmt.Sprint(v.Len())
	}))
	b.report.Connectivity = &c
	return c
}

// participants collects the ids of every participant of kind across the
// given participant lists. Nil lists are skipped.
func participants(kind common.ParticipantKind, lists ...[]common.Participant) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, list := range lists {
		for _, p := range list {
			if p.Kind() == kind {
				out[p.Ref().ID] = struct{}{}
			}
		}
	}
	return out
}

// outside returns the refs whose id is not in involved.
func outside(population []common.Ref, involved map[int64]struct{}) []common.Ref {
	var out []common.Ref
	for _, r := range population {
		if _, ok := involved[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// exceeds reports whether part is more than fraction of total.
func exceeds(part, total int, fraction float64) bool {
	return total > 0 && float64(part) > fraction*float64(total)
}

// urgencyBalance flags urgency levels whose share of quests is above
// UrgencyTooMany or below UrgencyTooFew percent.
func (b *builder) urgencyBalance(quests []common.Quest, t Thresholds) {
	if len(quests) == 0 {
		return
	}
	r := distribution.CountBy(quests, func(q common.Quest) string { return q.Urgency }, common.UrgencyLevels...)
	b.distribution("urgency", r)
	for _, bucket := range r {
		switch {
		case bucket.Percentage > t.UrgencyTooMany:
			b.add(UrgencyBalance, fmt.Sprintf("Too many %s quests (%.1f%%).", bucket.Key, bucket.Percentage))
		case bucket.Percentage < t.UrgencyTooFew:
			b.add(UrgencyBalance, fmt.Sprintf("Too few %s quests (%.1f%%).", bucket.Key, bucket.Percentage))
		}
	}
}

func refs[T any](items []T, ref func(T) common.Ref) []common.Ref {
	out := make([]common.Ref, len(items))
	for i, item := range items {
		out[i] = ref(item)
	}
	return out
}
