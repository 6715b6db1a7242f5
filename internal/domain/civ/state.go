package civ

import (
	"sort"

	"dominion/internal/domain/world"
)

// CivID identifies a civilization for the lifetime of a game. Zero is reserved
// for "nobody" (unowned tiles).
type CivID uint32

const unitVisionRange = 2
const cityVisionRange = 3

// Personality steers which strategic goals a civilization pursues. All fields
// are in [0, 1].
type Personality struct {
	Militarism       float64 `json:"militarism"`
	IndustryFocus    float64 `json:"industry_focus"`
	ExplorationDrive float64 `json:"exploration_drive"`
	LandHunger       float64 `json:"land_hunger"`
	Interventionism  float64 `json:"interventionism"`
}

type Unit struct {
	ID       uint32      `json:"id"`
	Type     UnitType    `json:"type"`
	Position world.Point `json:"position"`
	Strength float64     `json:"strength"`
}

type City struct {
	Name       string         `json:"name"`
	Position   world.Point    `json:"position"`
	Population int            `json:"population"`
	Buildings  []BuildingType `json:"buildings"`
}

type Civilization struct {
	ID           CivID
	Name         string
	Capital      world.Point
	Gold         float64
	Income       float64
	Technologies map[string]bool
	Units        []Unit
	Cities       []City
	Territory    []world.Point
	Relations    map[CivID]float64
	Personality  Personality
	Fog          *world.FogOfWar
	Eliminated   bool

	nextUnitID uint32
}

func (c *Civilization) AddUnit(t UnitType, pos world.Point, strength float64) Unit {
	c.nextUnitID++
	u := Unit{ID: c.nextUnitID, Type: t, Position: pos, Strength: strength}
	c.Units = append(c.Units, u)
	return u
}

func (c *Civilization) MilitaryStrength() float64 {
	total := 0.0
	for _, u := range c.Units {
		total += u.Strength
	}
	return total
}

func (c *Civilization) HasTechnology(name string) bool {
	return c.Technologies[name]
}

// RecomputeVision rebuilds the fog of war from current unit and city positions.
func (c *Civilization) RecomputeVision() {
	if c.Fog == nil {
		return
	}
	c.Fog.ResetVisibility()
	for _, u := range c.Units {
		c.Fog.MarkVisible(u.Position, unitVisionRange)
	}
	for _, city := range c.Cities {
		c.Fog.MarkVisible(city.Position, cityVisionRange)
	}
}

// GameState is the authoritative world state. It is mutated only by the
// execution engine during the Execute phase and by turn settlement.
type GameState struct {
	Turn int
	Map  *world.Map
	Civs map[CivID]*Civilization
}

func NewGameState(m *world.Map) *GameState {
	return &GameState{Turn: 1, Map: m, Civs: map[CivID]*Civilization{}}
}

// ActiveCivIDs returns the non-eliminated civilizations in ascending ID order,
// the canonical processing order for a turn.
func (g *GameState) ActiveCivIDs() []CivID {
	ids := make([]CivID, 0, len(g.Civs))
	for id, c := range g.Civs {
		if !c.Eliminated {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SettleIncome credits each living civilization its per-turn income.
func (g *GameState) SettleIncome() {
	for _, c := range g.Civs {
		if !c.Eliminated {
			c.Gold += c.Income
		}
	}
}

// IsDefeated reports whether a civilization has lost everything that keeps it
// in the game.
func (c *Civilization) IsDefeated() bool {
	return len(c.Cities) == 0 && len(c.Units) == 0
}
