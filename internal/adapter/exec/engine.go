// Package exec applies scheduled actions to the authoritative game state. It
// is the only writer of that state during the Execute phase.
package exec

import (
	"context"
	"errors"
	"fmt"

	"dominion/internal/app/ports"
	"dominion/internal/domain/civ"
	"dominion/internal/domain/world"
)

const (
	researchCost = 50.0
	unitCost     = 30.0
	buildingCost = 25.0
	expandCost   = 10.0

	unitBaseStrength    = 10.0
	tradeIncomeBonus    = 5.0
	buildingIncomeBonus = 3.0
	territoryIncome     = 1.0

	tradeRelationBonus     = 5.0
	diplomacyRelationBonus = 10.0
	warRelationPenalty     = 50.0

	defendRepositionRange = 5
	moveStepsPerAction    = 2
)

type Engine struct {
	State *civ.GameState
}

func NewEngine(state *civ.GameState) *Engine {
	return &Engine{State: state}
}

func (e *Engine) Apply(ctx context.Context, id civ.CivID, action civ.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	actor, ok := e.State.Civs[id]
	if !ok || actor.Eliminated {
		return ports.Fatalf("civ %d does not exist", id)
	}

	var err error
	switch action.Kind {
	case civ.ActionExpand:
		err = e.applyExpand(actor, action)
	case civ.ActionResearch:
		err = e.applyResearch(actor, action)
	case civ.ActionBuildUnit:
		err = e.applyBuildUnit(actor, action)
	case civ.ActionBuildBuilding:
		err = e.applyBuildBuilding(actor, action)
	case civ.ActionTrade:
		err = e.applyTrade(actor, action)
	case civ.ActionAttack:
		err = e.applyAttack(actor, action)
	case civ.ActionDiplomacy:
		err = e.applyDiplomacy(actor, action)
	case civ.ActionDefend:
		err = e.applyDefend(actor, action)
	case civ.ActionExplore:
		err = e.applyExplore(actor, action)
	default:
		err = ports.Fatalf("unknown action kind %q", action.Kind)
	}
	if err != nil {
		return err
	}
	actor.RecomputeVision()
	return nil
}

func (e *Engine) applyExpand(actor *civ.Civilization, action civ.Action) error {
	target := action.Target
	if !e.State.Map.InBounds(target) {
		return ports.Fatalf("expand target %v out of bounds", target)
	}
	if !e.State.Map.IsPassable(target) {
		return ports.Fatalf("expand target %v impassable", target)
	}
	switch owner := e.State.Map.OwnerAt(target); owner {
	case 0:
		// unclaimed, proceed
	case uint32(actor.ID):
		return ports.Fatalf("tile %v already owned", target)
	default:
		return ports.Recoverablef("tile %v contested by civ %d", target, owner)
	}
	if actor.Gold < expandCost {
		return ports.Recoverablef("insufficient gold for expansion: have %.1f, need %.1f", actor.Gold, expandCost)
	}

	actor.Gold -= expandCost
	e.State.Map.SetOwner(target, uint32(actor.ID))
	actor.Territory = append(actor.Territory, target)
	actor.Income += territoryIncome
	if len(actor.Cities) == 0 {
		actor.Cities = append(actor.Cities, civ.City{
			Name:       fmt.Sprintf("%s Capital", actor.Name),
			Position:   target,
			Population: 1,
		})
		actor.Capital = target
	}
	return nil
}

func (e *Engine) applyResearch(actor *civ.Civilization, action civ.Action) error {
	if action.Technology == "" {
		return ports.Fatalf("research without technology")
	}
	if actor.HasTechnology(action.Technology) {
		return ports.Fatalf("technology %q already known", action.Technology)
	}
	if actor.Gold < researchCost {
		return ports.Recoverablef("insufficient gold for research: have %.1f, need %.1f", actor.Gold, researchCost)
	}
	actor.Gold -= researchCost
	if actor.Technologies == nil {
		actor.Technologies = map[string]bool{}
	}
	actor.Technologies[action.Technology] = true
	return nil
}

func (e *Engine) applyBuildUnit(actor *civ.Civilization, action civ.Action) error {
	if actor.Gold < unitCost {
		return ports.Recoverablef("insufficient gold for unit: have %.1f, need %.1f", actor.Gold, unitCost)
	}
	pos := action.Target
	if !e.State.Map.IsPassable(pos) {
		return ports.Fatalf("unit position %v impassable", pos)
	}
	if owner := e.State.Map.OwnerAt(pos); owner != 0 && owner != uint32(actor.ID) {
		return ports.Recoverablef("unit position %v inside foreign territory", pos)
	}
	actor.Gold -= unitCost
	actor.AddUnit(action.UnitType, pos, unitBaseStrength)
	return nil
}

func (e *Engine) applyBuildBuilding(actor *civ.Civilization, action civ.Action) error {
	if len(actor.Cities) == 0 {
		return ports.Fatalf("no city to build in")
	}
	cityIdx := -1
	for i, c := range actor.Cities {
		if c.Position == action.Target {
			cityIdx = i
			break
		}
	}
	if cityIdx < 0 {
		cityIdx = 0
	}
	for _, b := range actor.Cities[cityIdx].Buildings {
		if b == action.BuildingType {
			return ports.Fatalf("city %q already has %s", actor.Cities[cityIdx].Name, action.BuildingType)
		}
	}
	if actor.Gold < buildingCost {
		return ports.Recoverablef("insufficient gold for building: have %.1f, need %.1f", actor.Gold, buildingCost)
	}
	actor.Gold -= buildingCost
	actor.Cities[cityIdx].Buildings = append(actor.Cities[cityIdx].Buildings, action.BuildingType)
	actor.Income += buildingIncomeBonus
	return nil
}

func (e *Engine) applyTrade(actor *civ.Civilization, action civ.Action) error {
	partner, ok := e.State.Civs[action.TargetCiv]
	if !ok || partner.Eliminated {
		return ports.Fatalf("trade partner %d does not exist", action.TargetCiv)
	}
	if partner.ID == actor.ID {
		return ports.Fatalf("cannot trade with self")
	}
	actor.Income += tradeIncomeBonus
	adjustRelation(actor, partner.ID, tradeRelationBonus)
	adjustRelation(partner, actor.ID, tradeRelationBonus)
	return nil
}

func (e *Engine) applyAttack(actor *civ.Civilization, action civ.Action) error {
	target, ok := e.State.Civs[action.TargetCiv]
	if !ok || target.Eliminated {
		return ports.Fatalf("attack target civ %d does not exist", action.TargetCiv)
	}
	if len(actor.Units) == 0 {
		return ports.Recoverablef("no units available to attack")
	}

	attacker := e.nearestUnit(actor, action.Target)
	path, err := world.FindPath(e.State.Map, attacker.Position, action.Target)
	if err != nil {
		if errors.Is(err, world.ErrUnreachable) {
			return ports.Recoverablef("attack target %v unreachable", action.Target)
		}
		return err
	}
	e.advanceUnit(actor, attacker.ID, path)
	adjustRelation(actor, target.ID, -warRelationPenalty)
	adjustRelation(target, actor.ID, -warRelationPenalty)

	// Resolve combat only once the attacker has closed the distance.
	attacker = e.unitByID(actor, attacker.ID)
	if defender, idx := e.unitAt(target, attacker.Position); defender != nil {
		if attacker.Strength >= defender.Strength {
			target.Units = append(target.Units[:idx], target.Units[idx+1:]...)
		} else {
			e.removeUnit(actor, attacker.ID)
		}
	}
	return nil
}

func (e *Engine) applyDiplomacy(actor *civ.Civilization, action civ.Action) error {
	target, ok := e.State.Civs[action.TargetCiv]
	if !ok || target.Eliminated {
		return ports.Fatalf("diplomacy target civ %d does not exist", action.TargetCiv)
	}
	adjustRelation(actor, target.ID, diplomacyRelationBonus)
	adjustRelation(target, actor.ID, diplomacyRelationBonus)
	return nil
}

func (e *Engine) applyDefend(actor *civ.Civilization, action civ.Action) error {
	if len(actor.Units) == 0 {
		return ports.Recoverablef("no units available to defend %v", action.Target)
	}
	for i := range actor.Units {
		if actor.Units[i].Position.ManhattanDistance(action.Target) <= defendRepositionRange {
			actor.Units[i].Position = action.Target
		}
	}
	return nil
}

func (e *Engine) applyExplore(actor *civ.Civilization, action civ.Action) error {
	if len(actor.Units) == 0 {
		return ports.Recoverablef("no units available to explore")
	}
	scout := e.nearestUnit(actor, action.Target)
	goal := e.nearestPassable(action.Target)
	path, err := world.FindPath(e.State.Map, scout.Position, goal)
	if err != nil {
		if errors.Is(err, world.ErrUnreachable) {
			return ports.Recoverablef("explore target %v unreachable", action.Target)
		}
		return err
	}
	e.advanceUnit(actor, scout.ID, path)
	return nil
}

// nearestPassable clamps an exploration goal to the map and walks it onto
// passable ground; exploration aims at a direction more than a tile.
func (e *Engine) nearestPassable(p world.Point) world.Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X >= e.State.Map.Width {
		p.X = e.State.Map.Width - 1
	}
	if p.Y >= e.State.Map.Height {
		p.Y = e.State.Map.Height - 1
	}
	if e.State.Map.IsPassable(p) {
		return p
	}
	for _, n := range p.Neighbors() {
		if e.State.Map.IsPassable(n) {
			return n
		}
	}
	return p
}

func (e *Engine) nearestUnit(actor *civ.Civilization, target world.Point) civ.Unit {
	best := actor.Units[0]
	for _, u := range actor.Units[1:] {
		if u.Position.ManhattanDistance(target) < best.Position.ManhattanDistance(target) {
			best = u
		}
	}
	return best
}

// advanceUnit moves a unit along path by its per-action movement allowance.
func (e *Engine) advanceUnit(actor *civ.Civilization, unitID uint32, path []world.Point) {
	steps := moveStepsPerAction
	if steps > len(path)-1 {
		steps = len(path) - 1
	}
	if steps <= 0 {
		return
	}
	for i := range actor.Units {
		if actor.Units[i].ID == unitID {
			actor.Units[i].Position = path[steps]
			return
		}
	}
}

func (e *Engine) unitByID(actor *civ.Civilization, id uint32) civ.Unit {
	for _, u := range actor.Units {
		if u.ID == id {
			return u
		}
	}
	return civ.Unit{}
}

func (e *Engine) unitAt(owner *civ.Civilization, pos world.Point) (*civ.Unit, int) {
	for i := range owner.Units {
		if owner.Units[i].Position == pos {
			return &owner.Units[i], i
		}
	}
	return nil, -1
}

func (e *Engine) removeUnit(owner *civ.Civilization, id uint32) {
	for i := range owner.Units {
		if owner.Units[i].ID == id {
			owner.Units = append(owner.Units[:i], owner.Units[i+1:]...)
			return
		}
	}
}

func adjustRelation(c *civ.Civilization, other civ.CivID, delta float64) {
	if c.Relations == nil {
		c.Relations = map[civ.CivID]float64{}
	}
	c.Relations[other] += delta
}
