package common

// Canonical enumerations of the categorical fields the gap analyzers
// measure. Order is significant: it is the tie-break order for
// underrepresented keys.
var (
	FactionTypes = []string{
		"guild", "cult", "tribe", "noble_house", "mercantile",
		"religious", "military", "criminal", "political", "arcane",
	}

	Alignments = []string{
		"lawful_good", "neutral_good", "chaotic_good",
		"lawful_neutral", "true_neutral", "chaotic_neutral",
		"lawful_evil", "neutral_evil", "chaotic_evil",
	}

	AgendaTypes = []string{"economic", "military", "political", "social", "occult", "technological"}

	DiplomaticStatuses = []string{"ally", "enemy", "neutral", "vassal", "suzerain", "rival", "trade"}

	ComplexityProfiles = []string{
		"moral_anchor_good",
		"moral_anchor_evil",
		"contextual_flawed_understandable",
		"deeply_complex_contradictory",
		"simple_what_you_see",
	}

	PerceptionGoals = []string{
		"trustworthy_ally",
		"suspicious_but_helpful",
		"obvious_villain",
		"hidden_villain",
		"tragic_figure",
		"comic_relief",
		"mysterious_enigma",
	}

	QuestTypes = []string{"main", "side", "faction", "character", "generic"}

	UrgencyLevels = []string{"background", "developing", "urgent", "critical"}

	QuestRelationTypes = []string{"prerequisite", "sequel", "parallel", "alternative", "hidden_connection"}

	ConflictStatuses = []string{"brewing", "active", "escalating", "deescalating", "resolved"}

	ConflictNatures = []string{"political", "military", "mystical", "social", "economic", "environmental"}

	ConflictScopes = []string{"local", "regional", "global"}
)
