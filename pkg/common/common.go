package common

// Source tables as reported by the fuzzy search backend.
const (
	TableNPCs      = "npcs"
	TableFactions  = "factions"
	TableQuests    = "quests"
	TableConflicts = "major_conflicts"
	TableRegions   = "regions"
	TableAreas     = "areas"
	TableSites     = "sites"
)

// Ref is a lightweight pointer to another entity, as nested inside
// relation rows.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// World is the bundle of already loaded, cross-referenced collections the
// gap analyzers run over. It is assembled fresh per request and never
// mutated after assembly.
type World struct {
	Factions  []Faction  `json:"factions"`
	NPCs      []NPC      `json:"npcs"`
	Quests    []Quest    `json:"quests"`
	Conflicts []Conflict `json:"conflicts"`
	Regions   []Region   `json:"regions"`
}

// Faction is an organisation in the campaign world.
//
// Diplomacy rows are stored once per edge but appear on both endpoints:
// OutgoingRelations on the initiating faction (counterpart under
// TargetFaction) and IncomingRelations on the other side (counterpart under
// SourceFaction).
type Faction struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	Type              string      `json:"type"`
	Alignment         string      `json:"alignment"`
	Headquarters      []Site      `json:"headquarters,omitempty"`
	OutgoingRelations []Diplomacy `json:"outgoingRelations,omitempty"`
	IncomingRelations []Diplomacy `json:"incomingRelations,omitempty"`
	Agendas           []Agenda    `json:"agendas,omitempty"`
	Influence         []Influence `json:"influence,omitempty"`
}

// Ref returns the faction's reference.
func (f Faction) Ref() Ref { return Ref{ID: f.ID, Name: f.Name} }

// Diplomacy is one faction_diplomacy row seen from one of its endpoints.
type Diplomacy struct {
	ID            int64  `json:"id"`
	Status        string `json:"diplomaticStatus"`
	Strength      string `json:"strength,omitempty"`
	Description   string `json:"description,omitempty"`
	SourceFaction *Ref   `json:"sourceFaction,omitempty"`
	TargetFaction *Ref   `json:"targetFaction,omitempty"`
}

// Agenda is a long running goal of a faction.
type Agenda struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"agendaType"`
	Stage      string `json:"currentStage,omitempty"`
	Importance string `json:"importance,omitempty"`
}

// Influence records a faction's territorial control over a place.
type Influence struct {
	Faction Ref    `json:"faction"`
	Place   Place  `json:"place"`
	Level   string `json:"influenceLevel,omitempty"`
}

// NPC is a non-player character.
type NPC struct {
	ID                   int64             `json:"id"`
	Name                 string            `json:"name"`
	Occupation           string            `json:"occupation,omitempty"`
	Alignment            string            `json:"alignment,omitempty"`
	ComplexityProfile    string            `json:"complexityProfile,omitempty"`
	PlayerPerceptionGoal string            `json:"playerPerceptionGoal,omitempty"`
	Factions             []Membership      `json:"factions,omitempty"`
	Sites                []SiteAssociation `json:"sites,omitempty"`
	OutgoingRelations    []Relationship    `json:"outgoingRelations,omitempty"`
	IncomingRelations    []Relationship    `json:"incomingRelations,omitempty"`
}

// Ref returns the npc's reference.
func (n NPC) Ref() Ref { return Ref{ID: n.ID, Name: n.Name} }

// Membership links an NPC to a faction.
type Membership struct {
	Faction Ref    `json:"faction"`
	Role    string `json:"role,omitempty"`
	Loyalty string `json:"loyalty,omitempty"`
}

// SiteAssociation places an NPC at a site.
type SiteAssociation struct {
	Site      Ref  `json:"site"`
	IsCurrent bool `json:"isCurrent"`
}

// Relationship is one npc_relationships row seen from one of its endpoints.
type Relationship struct {
	ID        int64  `json:"id"`
	Type      string `json:"relationshipType"`
	Strength  string `json:"strength,omitempty"`
	SourceNPC *Ref   `json:"sourceNpc,omitempty"`
	TargetNPC *Ref   `json:"targetNpc,omitempty"`
}

// Quest is a unit of adventure content.
type Quest struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Urgency           string          `json:"urgency"`
	Region            *Ref            `json:"region,omitempty"`
	Participants      []Participant   `json:"participants,omitempty"`
	OutgoingRelations []QuestRelation `json:"outgoingRelations,omitempty"`
	IncomingRelations []QuestRelation `json:"incomingRelations,omitempty"`
}

// Ref returns the quest's reference.
func (q Quest) Ref() Ref { return Ref{ID: q.ID, Name: q.Name} }

// QuestRelation is one quest_relations row seen from one of its endpoints.
type QuestRelation struct {
	ID          int64  `json:"id"`
	Type        string `json:"relationshipType"`
	SourceQuest *Ref   `json:"sourceQuest,omitempty"`
	TargetQuest *Ref   `json:"targetQuest,omitempty"`
}

// Conflict is a major, world-shaping struggle.
type Conflict struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Status       string        `json:"status"`
	Scope        string        `json:"scope"`
	Natures      []string      `json:"natures,omitempty"`
	Region       *Ref          `json:"region,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

// Ref returns the conflict's reference.
func (c Conflict) Ref() Ref { return Ref{ID: c.ID, Name: c.Name} }

// Region is the top level of the geography.
type Region struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Areas []Area `json:"areas,omitempty"`
}

// Area belongs to a region and holds sites.
type Area struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Sites []Site `json:"sites,omitempty"`
}

// Site is a concrete location. Area is set when the site was loaded
// through a faction headquarters or an NPC association.
type Site struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Area *Ref   `json:"area,omitempty"`
}

// SearchHit is one ranked row returned by the fuzzy backend. Rank is
// implied by position.
type SearchHit struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Table string `json:"source_table"`
}

// Projection is a search hit expanded with type specific columns.
type Projection struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SourceTable string `json:"source_table"`

	// npcs
	Occupation string `json:"occupation,omitempty"`
	Location   string `json:"location,omitempty"`

	// factions
	Type      string `json:"type,omitempty"`
	Alignment string `json:"alignment,omitempty"`

	// quests
	QuestType string `json:"questType,omitempty"`
	Urgency   string `json:"urgency,omitempty"`

	// Cosine distance, set by the semantic tier only.
	Distance float64 `json:"distance,omitempty"`
}
