package civ

import (
	"fmt"

	"dominion/internal/domain/world"
)

type ActionKind string

const (
	ActionExpand        ActionKind = "expand"
	ActionResearch      ActionKind = "research"
	ActionBuildUnit     ActionKind = "build_unit"
	ActionBuildBuilding ActionKind = "build_building"
	ActionTrade         ActionKind = "trade"
	ActionAttack        ActionKind = "attack"
	ActionDiplomacy     ActionKind = "diplomacy"
	ActionDefend        ActionKind = "defend"
	ActionExplore       ActionKind = "explore"
)

func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionExpand,
		ActionResearch,
		ActionBuildUnit,
		ActionBuildBuilding,
		ActionTrade,
		ActionAttack,
		ActionDiplomacy,
		ActionDefend,
		ActionExplore,
	}
}

// DefaultBaseWeights are the per-kind priority floors. A queued action's final
// priority is base weight plus the situational bonus supplied by the planner
// that proposed it.
func DefaultBaseWeights() map[ActionKind]float64 {
	return map[ActionKind]float64{
		ActionDefend:        10.0,
		ActionAttack:        8.0,
		ActionDiplomacy:     6.0,
		ActionBuildUnit:     5.0,
		ActionExplore:       4.5,
		ActionExpand:        4.0,
		ActionResearch:      3.0,
		ActionBuildBuilding: 2.0,
		ActionTrade:         1.0,
	}
}

type UnitType string

const (
	UnitWarrior UnitType = "warrior"
	UnitArcher  UnitType = "archer"
	UnitScout   UnitType = "scout"
	UnitSettler UnitType = "settler"
)

type BuildingType string

const (
	BuildingGranary     BuildingType = "granary"
	BuildingBarracks    BuildingType = "barracks"
	BuildingMarketplace BuildingType = "marketplace"
	BuildingLibrary     BuildingType = "library"
)

type Resource string

const (
	ResourceGold Resource = "gold"
	ResourceFood Resource = "food"
	ResourceOre  Resource = "ore"
)

// Action is the closed action vocabulary shared by the planners, the queue and
// the execution engine. Only the fields relevant to Kind are set.
type Action struct {
	Kind         ActionKind   `json:"kind"`
	Target       world.Point  `json:"target"`
	TargetCiv    CivID        `json:"target_civ,omitempty"`
	Technology   string       `json:"technology,omitempty"`
	UnitType     UnitType     `json:"unit_type,omitempty"`
	BuildingType BuildingType `json:"building_type,omitempty"`
	Resource     Resource     `json:"resource,omitempty"`
	Proposal     string       `json:"proposal,omitempty"`
}

// TargetKey identifies what the action is aimed at, independent of who proposed
// it. Candidates sharing (Kind, TargetKey) are duplicates of each other.
func (a Action) TargetKey() string {
	switch a.Kind {
	case ActionResearch:
		return a.Technology
	case ActionTrade, ActionAttack, ActionDiplomacy:
		return fmt.Sprintf("civ:%d", a.TargetCiv)
	default:
		return fmt.Sprintf("%d,%d", a.Target.X, a.Target.Y)
	}
}

func (a Action) String() string {
	return string(a.Kind) + "@" + a.TargetKey()
}
