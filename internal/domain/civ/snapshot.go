package civ

import "dominion/internal/domain/world"

// Snapshot is the read-only, fog-gated view of the world handed to the
// planners. It is built once per civilization per turn and never references
// live game state, so planning may run concurrently across civilizations.
type Snapshot struct {
	Turn int   `json:"turn"`
	Self CivID `json:"self"`

	Gold            float64     `json:"gold"`
	Income          float64     `json:"income"`
	TechnologyCount int         `json:"technology_count"`
	Capital         world.Point `json:"capital"`
	Personality     Personality `json:"personality"`

	OwnUnits  []Unit `json:"own_units"`
	OwnCities []City `json:"own_cities"`

	TerritorySize  int           `json:"territory_size"`
	ExpansionTiles []world.Point `json:"expansion_tiles"`

	// Foreign entities inside current vision only.
	VisibleUnits  []ForeignUnit `json:"visible_units"`
	VisibleCities []ForeignCity `json:"visible_cities"`

	// ThreatLevel is the summed strength of visible foreign units near the
	// capital, normalized against own strength.
	ThreatLevel float64 `json:"threat_level"`

	KnownCivs []KnownCiv `json:"known_civs"`
}

type ForeignUnit struct {
	Owner    CivID       `json:"owner"`
	Type     UnitType    `json:"type"`
	Position world.Point `json:"position"`
	Strength float64     `json:"strength"`
}

type ForeignCity struct {
	Owner    CivID       `json:"owner"`
	Name     string      `json:"name"`
	Position world.Point `json:"position"`
}

type KnownCiv struct {
	ID       CivID   `json:"id"`
	Relation float64 `json:"relation"`
}

func (s Snapshot) OwnStrength() float64 {
	total := 0.0
	for _, u := range s.OwnUnits {
		total += u.Strength
	}
	return total
}

func (s Snapshot) KnownCiv(id CivID) (KnownCiv, bool) {
	for _, k := range s.KnownCivs {
		if k.ID == id {
			return k, true
		}
	}
	return KnownCiv{}, false
}
