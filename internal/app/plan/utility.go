package plan

import (
	"math/rand"

	"dominion/internal/domain/civ"
)

const (
	considerationThreshold = 0.3

	maxExpansionFactor    = 8.0
	goldToResearchDivisor = 100.0
	threatFactorMax       = 2.0
	baseMilitarismWeight  = 0.5
	tradeUtilityFactor    = 0.8

	earlyGameTurnLimit = 20
	midGameTurnLimit   = 50
)

// techLadder is the fixed research order; the first unknown entry is the next
// research target.
var techLadder = []string{
	"agriculture",
	"bronze_working",
	"writing",
	"mathematics",
	"currency",
	"engineering",
	"gunpowder",
}

// UtilityStrategy scores a small set of responses against the snapshot and
// proposes every action whose utility clears the consideration threshold.
type UtilityStrategy struct{}

func (UtilityStrategy) Name() string { return "utility" }

func (u UtilityStrategy) Propose(snap civ.Snapshot, rng *rand.Rand) []Candidate {
	var out []Candidate

	if c, ok := u.expansion(snap); ok {
		out = append(out, c)
	}
	if c, ok := u.research(snap); ok {
		out = append(out, c)
	}
	if c, ok := u.military(snap); ok {
		out = append(out, c)
	}
	if c, ok := u.defense(snap); ok {
		out = append(out, c)
	}
	if c, ok := u.trade(snap); ok {
		out = append(out, c)
	}
	if c, ok := u.exploration(snap, rng); ok {
		out = append(out, c)
	}
	return out
}

func (UtilityStrategy) expansion(snap civ.Snapshot) (Candidate, bool) {
	if len(snap.ExpansionTiles) == 0 {
		return Candidate{}, false
	}
	landHunger := snap.Personality.LandHunger
	availability := float64(len(snap.ExpansionTiles)) / maxExpansionFactor
	if availability > 1 {
		availability = 1
	}
	score := landHunger * availability
	if score < considerationThreshold {
		return Candidate{}, false
	}
	return Candidate{
		Action: civ.Action{Kind: civ.ActionExpand, Target: snap.ExpansionTiles[0]},
		Bonus:  score,
	}, true
}

func (UtilityStrategy) research(snap civ.Snapshot) (Candidate, bool) {
	if snap.TechnologyCount >= len(techLadder) {
		return Candidate{}, false
	}
	affordability := snap.Gold / goldToResearchDivisor
	if affordability > 1 {
		affordability = 1
	}
	score := affordability * snap.Personality.IndustryFocus
	if score < considerationThreshold {
		return Candidate{}, false
	}
	return Candidate{
		Action: civ.Action{Kind: civ.ActionResearch, Technology: techLadder[snap.TechnologyCount]},
		Bonus:  score,
	}, true
}

func (UtilityStrategy) military(snap civ.Snapshot) (Candidate, bool) {
	threat := snap.ThreatLevel
	if threat > threatFactorMax {
		threat = threatFactorMax
	}
	score := (threat / threatFactorMax) * (baseMilitarismWeight + baseMilitarismWeight*snap.Personality.Militarism)
	if len(snap.OwnUnits) < 2 {
		// A civilization with almost no army always wants a first garrison.
		score += considerationThreshold
	}
	if score < considerationThreshold {
		return Candidate{}, false
	}
	return Candidate{
		Action: civ.Action{Kind: civ.ActionBuildUnit, UnitType: civ.UnitWarrior, Target: snap.Capital},
		Bonus:  score,
	}, true
}

func (UtilityStrategy) defense(snap civ.Snapshot) (Candidate, bool) {
	if snap.ThreatLevel < 1.0 {
		return Candidate{}, false
	}
	score := snap.ThreatLevel / threatFactorMax
	return Candidate{
		Action: civ.Action{Kind: civ.ActionDefend, Target: snap.Capital},
		Bonus:  score,
	}, true
}

func (UtilityStrategy) trade(snap civ.Snapshot) (Candidate, bool) {
	if len(snap.KnownCivs) == 0 {
		return Candidate{}, false
	}
	// Prefer the best-liked partner; KnownCivs is sorted by ID so the scan is
	// deterministic.
	partner := snap.KnownCivs[0]
	for _, k := range snap.KnownCivs[1:] {
		if k.Relation > partner.Relation {
			partner = k
		}
	}
	score := tradeUtilityFactor * snap.Personality.IndustryFocus
	if score < considerationThreshold {
		return Candidate{}, false
	}
	return Candidate{
		Action: civ.Action{Kind: civ.ActionTrade, TargetCiv: partner.ID, Resource: civ.ResourceGold},
		Bonus:  score,
	}, true
}

func (UtilityStrategy) exploration(snap civ.Snapshot, rng *rand.Rand) (Candidate, bool) {
	phase := 0.5
	switch {
	case snap.Turn < earlyGameTurnLimit:
		phase = 1.5
	case snap.Turn < midGameTurnLimit:
		phase = 1.0
	}
	spread := 1.2
	switch {
	case snap.TerritorySize > 6:
		spread = 0.7
	case snap.TerritorySize > 3:
		spread = 1.0
	}
	score := snap.Personality.ExplorationDrive * phase * spread
	if score < considerationThreshold {
		return Candidate{}, false
	}
	// Pick a direction from the seeded rng so exploration fans out but stays
	// reproducible.
	offsets := [4][2]int{{5, 0}, {0, 5}, {3, 3}, {-3, 3}}
	o := offsets[rng.Intn(len(offsets))]
	target := snap.Capital
	target.X += o[0]
	target.Y += o[1]
	return Candidate{
		Action: civ.Action{Kind: civ.ActionExplore, Target: target},
		Bonus:  score,
	}, true
}
