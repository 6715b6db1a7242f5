package plan

import (
	"math/rand"

	"dominion/internal/domain/civ"
)

const (
	establishCityPriority  = 0.8
	buildUnitPriority      = 0.7
	researchPriority       = 0.6
	explorePriority        = 0.5
	diplomacyPriority      = 0.7
	militaryActionPriority = 0.6

	allianceThreshold  = 20.0
	weaknessThreshold  = 0.7
	conquestLandHunger = 0.7
)

type htnTask string

const (
	taskFoundSettlement    htnTask = "found_settlement"
	taskDiplomaticCampaign htnTask = "diplomatic_campaign"
	taskConquestCampaign   htnTask = "conquest_campaign"
)

// HTNStrategy decomposes high-level campaigns into primitive actions. Each
// task has one method; a method whose conditions fail contributes nothing.
type HTNStrategy struct{}

func (HTNStrategy) Name() string { return "htn" }

func (h HTNStrategy) Propose(snap civ.Snapshot, _ *rand.Rand) []Candidate {
	var out []Candidate
	for _, task := range h.tasks(snap) {
		out = append(out, h.decompose(task, snap)...)
	}
	return out
}

func (HTNStrategy) tasks(snap civ.Snapshot) []htnTask {
	p := snap.Personality
	var tasks []htnTask
	if len(snap.OwnCities) == 0 {
		tasks = append(tasks, taskFoundSettlement)
	}
	if p.Interventionism > 0.5 && len(snap.KnownCivs) > 0 {
		tasks = append(tasks, taskDiplomaticCampaign)
	}
	if p.LandHunger > conquestLandHunger && p.Militarism > 0.5 {
		tasks = append(tasks, taskConquestCampaign)
	}
	return tasks
}

func (h HTNStrategy) decompose(task htnTask, snap civ.Snapshot) []Candidate {
	switch task {
	case taskFoundSettlement:
		return h.foundSettlement(snap)
	case taskDiplomaticCampaign:
		return h.diplomaticCampaign(snap)
	case taskConquestCampaign:
		return h.conquestCampaign(snap)
	default:
		return nil
	}
}

func (HTNStrategy) foundSettlement(snap civ.Snapshot) []Candidate {
	target := snap.Capital
	if len(snap.ExpansionTiles) > 0 {
		target = snap.ExpansionTiles[0]
	}
	return []Candidate{
		{Action: civ.Action{Kind: civ.ActionExpand, Target: target}, Bonus: establishCityPriority, Source: "htn:found_settlement"},
		{Action: civ.Action{Kind: civ.ActionExplore, Target: target}, Bonus: explorePriority, Source: "htn:found_settlement"},
	}
}

// diplomaticCampaign courts the worst relation first; a partner already above
// the alliance threshold gets an alliance proposal instead.
func (HTNStrategy) diplomaticCampaign(snap civ.Snapshot) []Candidate {
	worst := snap.KnownCivs[0]
	for _, k := range snap.KnownCivs[1:] {
		if k.Relation < worst.Relation {
			worst = k
		}
	}
	proposal := "improve_relations"
	if worst.Relation > allianceThreshold {
		proposal = "propose_alliance"
	}
	return []Candidate{{
		Action: civ.Action{Kind: civ.ActionDiplomacy, TargetCiv: worst.ID, Proposal: proposal},
		Bonus:  diplomacyPriority,
		Source: "htn:diplomatic_campaign",
	}}
}

// conquestCampaign raises an army and, when a visibly weaker neighbor exists,
// directs an attack at it.
func (HTNStrategy) conquestCampaign(snap civ.Snapshot) []Candidate {
	out := []Candidate{{
		Action: civ.Action{Kind: civ.ActionBuildUnit, UnitType: civ.UnitWarrior, Target: snap.Capital},
		Bonus:  buildUnitPriority,
		Source: "htn:conquest_campaign",
	}}

	own := snap.OwnStrength()
	strengthByCiv := map[civ.CivID]float64{}
	for _, u := range snap.VisibleUnits {
		strengthByCiv[u.Owner] += u.Strength
	}
	for _, c := range snap.VisibleCities {
		foreign := strengthByCiv[c.Owner]
		if own > 0 && foreign < own*weaknessThreshold {
			out = append(out, Candidate{
				Action: civ.Action{Kind: civ.ActionAttack, TargetCiv: c.Owner, Target: c.Position},
				Bonus:  militaryActionPriority,
				Source: "htn:conquest_campaign",
			})
			break
		}
	}
	return out
}
