package common

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParticipantKind discriminates Participant.
type ParticipantKind uint8

const (
	ParticipantUnknown ParticipantKind = iota
	ParticipantFaction
	ParticipantNPC
)

func (k ParticipantKind) String() string {
	switch k {
	case ParticipantFaction:
		return "faction"
	case ParticipantNPC:
		return "npc"
	default:
		return "unknown"
	}
}

// Participant is a quest or conflict participant that is either a faction or
// an NPC, never both. Construct it with FactionParticipant or NPCParticipant.
type Participant struct {
	kind ParticipantKind
	ref  Ref
	Role string
}

func FactionParticipant(ref Ref, role string) Participant {
	return Participant{kind: ParticipantFaction, ref: ref, Role: role}
}

func NPCParticipant(ref Ref, role string) Participant {
	return Participant{kind: ParticipantNPC, ref: ref, Role: role}
}

func (p Participant) Kind() ParticipantKind { return p.kind }

// Ref returns the referenced entity regardless of kind.
func (p Participant) Ref() Ref { return p.ref }

// Faction returns the faction reference if the participant is a faction.
func (p Participant) Faction() (Ref, bool) {
	return p.ref, p.kind == ParticipantFaction
}

// NPC returns the npc reference if the participant is an NPC.
func (p Participant) NPC() (Ref, bool) {
	return p.ref, p.kind == ParticipantNPC
}

type participantJSON struct {
	Faction *Ref   `json:"faction,omitempty"`
	NPC     *Ref   `json:"npc,omitempty"`
	Role    string `json:"role,omitempty"`
}

func (p Participant) MarshalJSON() ([]byte, error) {
	out := participantJSON{Role: p.Role}
	switch p.kind {
	case ParticipantFaction:
		out.Faction = &p.ref
	case ParticipantNPC:
		out.NPC = &p.ref
	default:
		return nil, errors.New("participant has no kind")
	}
	return json.Marshal(out)
}

func (p *Participant) UnmarshalJSON(data []byte) error {
	var in participantJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch {
	case in.Faction != nil && in.NPC == nil:
		*p = FactionParticipant(*in.Faction, in.Role)
	case in.NPC != nil && in.Faction == nil:
		*p = NPCParticipant(*in.NPC, in.Role)
	default:
		return fmt.Errorf("participant must reference exactly one of faction or npc")
	}
	return nil
}

// PlaceKind discriminates Place.
type PlaceKind uint8

const (
	PlaceUnknown PlaceKind = iota
	PlaceRegion
	PlaceArea
	PlaceSite
)

func (k PlaceKind) String() string {
	switch k {
	case PlaceRegion:
		return "region"
	case PlaceArea:
		return "area"
	case PlaceSite:
		return "site"
	default:
		return "unknown"
	}
}

// ParsePlaceKind maps the place_type column to a PlaceKind.
func ParsePlaceKind(s string) (PlaceKind, error) {
	switch s {
	case "region":
		return PlaceRegion, nil
	case "area":
		return PlaceArea, nil
	case "site":
		return PlaceSite, nil
	default:
		return PlaceUnknown, fmt.Errorf("unknown place type %q", s)
	}
}

// Place is the target of territorial influence: exactly one region, area
// or site.
type Place struct {
	kind PlaceKind
	ref  Ref
}

func NewPlace(kind PlaceKind, ref Ref) Place {
	return Place{kind: kind, ref: ref}
}

func (p Place) Kind() PlaceKind { return p.kind }
func (p Place) Ref() Ref        { return p.ref }

// Area returns the area reference if the place is an area.
func (p Place) Area() (Ref, bool) {
	return p.ref, p.kind == PlaceArea
}

type placeJSON struct {
	Kind string `json:"kind"`
	Ref
}

func (p Place) MarshalJSON() ([]byte, error) {
	if p.kind == PlaceUnknown {
		return nil, errors.New("place has no kind")
	}
	return json.Marshal(placeJSON{Kind: p.kind.String(), Ref: p.ref})
}

func (p *Place) UnmarshalJSON(data []byte) error {
	var in placeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := ParsePlaceKind(in.Kind)
	if err != nil {
		return err
	}
	*p = NewPlace(kind, in.Ref)
	return nil
}
