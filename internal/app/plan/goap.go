package plan

import (
	"math/rand"

	"dominion/internal/domain/civ"
)

const maxPlanningDepth = 10

// goapState is a flat symbol table of world facts used by planning. Missing
// keys read as zero.
type goapState map[string]float64

func (s goapState) get(k string) float64 { return s[k] }

func (s goapState) apply(effects map[string]float64) goapState {
	next := make(goapState, len(s)+len(effects))
	for k, v := range s {
		next[k] = v
	}
	for k, d := range effects {
		next[k] += d
	}
	return next
}

type goapAction struct {
	name          string
	cost          float64
	preconditions map[string]float64 // minimum required values
	effects       map[string]float64 // additive deltas
	build         func(snap civ.Snapshot) (civ.Action, bool)
}

type goapGoal struct {
	name   string
	target map[string]float64 // key must reach value
}

// GOAPStrategy plans action chains toward personality-driven goals with a
// bounded greedy forward search over a symbolic world state.
type GOAPStrategy struct{}

func (GOAPStrategy) Name() string { return "goap" }

func (g GOAPStrategy) Propose(snap civ.Snapshot, _ *rand.Rand) []Candidate {
	state := stateFromSnapshot(snap)
	var out []Candidate
	for _, goal := range g.goals(snap) {
		for _, step := range g.search(state, goal, snap) {
			out = append(out, step)
		}
	}
	return out
}

func stateFromSnapshot(snap civ.Snapshot) goapState {
	return goapState{
		"gold":              snap.Gold,
		"income":            snap.Income,
		"territory":         float64(snap.TerritorySize),
		"tech_level":        float64(snap.TechnologyCount),
		"cities":            float64(len(snap.OwnCities)),
		"military_strength": snap.OwnStrength(),
		"explored_tiles":    float64(len(snap.ExpansionTiles)),
	}
}

func (GOAPStrategy) goals(snap civ.Snapshot) []goapGoal {
	p := snap.Personality
	var goals []goapGoal
	if p.Militarism > 0.5 {
		goals = append(goals, goapGoal{
			name:   "build_military",
			target: map[string]float64{"military_strength": snap.OwnStrength() + 10},
		})
	}
	if p.IndustryFocus > 0.7 {
		goals = append(goals, goapGoal{
			name:   "develop_economy",
			target: map[string]float64{"income": snap.Income * 1.5},
		})
	}
	if p.ExplorationDrive > 0.4 && snap.Turn < 30 {
		goals = append(goals, goapGoal{
			name:   "explore_territory",
			target: map[string]float64{"explored_tiles": float64(len(snap.ExpansionTiles)) + 10},
		})
	}
	return goals
}

// search greedily chains applicable actions until the goal is satisfied or the
// depth bound is hit, emitting one candidate per step. The action table is
// iterated in declaration order so plans are deterministic.
func (GOAPStrategy) search(start goapState, goal goapGoal, snap civ.Snapshot) []Candidate {
	state := start
	var out []Candidate
	for depth := 0; depth < maxPlanningDepth; depth++ {
		if goalSatisfied(state, goal) {
			break
		}
		step := pickAction(state, goal)
		if step == nil {
			break
		}
		action, ok := step.build(snap)
		if !ok {
			break
		}
		out = append(out, Candidate{
			Action: action,
			Bonus:  1.0 / (1.0 + step.cost),
			Source: "goap:" + goal.name,
		})
		state = state.apply(step.effects)
	}
	return out
}

func goalSatisfied(state goapState, goal goapGoal) bool {
	for k, v := range goal.target {
		if state.get(k) < v {
			return false
		}
	}
	return true
}

// pickAction returns the cheapest applicable action that moves some goal key
// forward, or nil when the goal is unreachable from here.
func pickAction(state goapState, goal goapGoal) *goapAction {
	var best *goapAction
	for i := range goapActionTable {
		a := &goapActionTable[i]
		if !preconditionsMet(state, a) {
			continue
		}
		if !advancesGoal(a, goal) {
			continue
		}
		if best == nil || a.cost < best.cost {
			best = a
		}
	}
	return best
}

func preconditionsMet(state goapState, a *goapAction) bool {
	for k, v := range a.preconditions {
		if state.get(k) < v {
			return false
		}
	}
	return true
}

func advancesGoal(a *goapAction, goal goapGoal) bool {
	for k := range goal.target {
		if a.effects[k] > 0 {
			return true
		}
	}
	return false
}

var goapActionTable = []goapAction{
	{
		name:          "expand",
		cost:          2.0,
		preconditions: map[string]float64{"gold": 10},
		effects:       map[string]float64{"territory": 1},
		build: func(snap civ.Snapshot) (civ.Action, bool) {
			if len(snap.ExpansionTiles) == 0 {
				return civ.Action{}, false
			}
			return civ.Action{Kind: civ.ActionExpand, Target: snap.ExpansionTiles[0]}, true
		},
	},
	{
		name:          "research",
		cost:          3.0,
		preconditions: map[string]float64{"gold": 50},
		effects:       map[string]float64{"tech_level": 1},
		build: func(snap civ.Snapshot) (civ.Action, bool) {
			if snap.TechnologyCount >= len(techLadder) {
				return civ.Action{}, false
			}
			return civ.Action{Kind: civ.ActionResearch, Technology: techLadder[snap.TechnologyCount]}, true
		},
	},
	{
		name:          "build_military",
		cost:          2.5,
		preconditions: map[string]float64{"gold": 30, "cities": 1},
		effects:       map[string]float64{"military_strength": 10},
		build: func(snap civ.Snapshot) (civ.Action, bool) {
			return civ.Action{Kind: civ.ActionBuildUnit, UnitType: civ.UnitWarrior, Target: snap.Capital}, true
		},
	},
	{
		name:          "trade",
		cost:          1.5,
		preconditions: map[string]float64{"cities": 1},
		effects:       map[string]float64{"income": 5},
		build: func(snap civ.Snapshot) (civ.Action, bool) {
			if len(snap.KnownCivs) == 0 {
				return civ.Action{}, false
			}
			return civ.Action{Kind: civ.ActionTrade, TargetCiv: snap.KnownCivs[0].ID, Resource: civ.ResourceGold}, true
		},
	},
	{
		name:          "build_economic",
		cost:          2.0,
		preconditions: map[string]float64{"gold": 25, "cities": 1},
		effects:       map[string]float64{"income": 3},
		build: func(snap civ.Snapshot) (civ.Action, bool) {
			if len(snap.OwnCities) == 0 {
				return civ.Action{}, false
			}
			return civ.Action{Kind: civ.ActionBuildBuilding, BuildingType: civ.BuildingMarketplace, Target: snap.OwnCities[0].Position}, true
		},
	},
	{
		name:          "explore",
		cost:          1.0,
		preconditions: map[string]float64{"cities": 1},
		effects:       map[string]float64{"explored_tiles": 5},
		build: func(snap civ.Snapshot) (civ.Action, bool) {
			target := snap.Capital
			target.X += 5
			return civ.Action{Kind: civ.ActionExplore, Target: target}, true
		},
	},
}
