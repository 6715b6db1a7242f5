package plan

import (
	"testing"

	"dominion/internal/domain/civ"
	"dominion/internal/domain/world"
)

func TestHTNFoundSettlementWhenCityless(t *testing.T) {
	frontier := world.Point{X: 4, Y: 4}
	snap := civ.Snapshot{ExpansionTiles: []world.Point{frontier}}

	cands := HTNStrategy{}.Propose(snap, testRNG())
	expand, ok := findKind(cands, civ.ActionExpand)
	if !ok {
		t.Fatal("cityless civ produced no expand candidate")
	}
	if expand.Action.Target != frontier || expand.Bonus != establishCityPriority {
		t.Fatalf("expand candidate = %+v", expand)
	}
	if _, ok := findKind(cands, civ.ActionExplore); !ok {
		t.Fatal("settlement task should also scout the frontier")
	}
}

func TestHTNDiplomacyTargetsWorstRelation(t *testing.T) {
	snap := civ.Snapshot{
		OwnCities:   []civ.City{{Name: "Home"}},
		Personality: civ.Personality{Interventionism: 0.6},
		KnownCivs: []civ.KnownCiv{
			{ID: 2, Relation: 30},
			{ID: 3, Relation: -5},
		},
	}
	c, ok := findKind(HTNStrategy{}.Propose(snap, testRNG()), civ.ActionDiplomacy)
	if !ok {
		t.Fatal("interventionist civ produced no diplomacy candidate")
	}
	if c.Action.TargetCiv != 3 || c.Action.Proposal != "improve_relations" {
		t.Fatalf("diplomacy candidate = %+v, want improve_relations with civ 3", c)
	}
}

func TestHTNDiplomacyProposesAllianceAboveThreshold(t *testing.T) {
	snap := civ.Snapshot{
		OwnCities:   []civ.City{{Name: "Home"}},
		Personality: civ.Personality{Interventionism: 0.6},
		KnownCivs: []civ.KnownCiv{
			{ID: 2, Relation: 30},
			{ID: 3, Relation: 25},
		},
	}
	c, ok := findKind(HTNStrategy{}.Propose(snap, testRNG()), civ.ActionDiplomacy)
	if !ok {
		t.Fatal("no diplomacy candidate")
	}
	if c.Action.Proposal != "propose_alliance" {
		t.Fatalf("proposal = %q, want propose_alliance when every relation clears the bar", c.Action.Proposal)
	}
}

func TestHTNConquestAttacksWeakNeighbor(t *testing.T) {
	snap := civ.Snapshot{
		OwnCities:   []civ.City{{Name: "Home"}},
		Capital:     world.Point{X: 2, Y: 2},
		Personality: civ.Personality{LandHunger: 0.8, Militarism: 0.6},
		OwnUnits:    []civ.Unit{{ID: 1, Strength: 30}},
		VisibleUnits: []civ.ForeignUnit{
			{Owner: 2, Strength: 10, Position: world.Point{X: 6, Y: 6}},
		},
		VisibleCities: []civ.ForeignCity{
			{Owner: 2, Name: "Rival", Position: world.Point{X: 7, Y: 7}},
		},
	}
	cands := HTNStrategy{}.Propose(snap, testRNG())
	if _, ok := findKind(cands, civ.ActionBuildUnit); !ok {
		t.Fatal("conquest campaign must raise units")
	}
	attack, ok := findKind(cands, civ.ActionAttack)
	if !ok {
		t.Fatal("no attack on a visibly weaker neighbor")
	}
	if attack.Action.TargetCiv != 2 || attack.Action.Target != (world.Point{X: 7, Y: 7}) {
		t.Fatalf("attack candidate = %+v", attack)
	}
}

func TestHTNConquestAvoidsStrongNeighbor(t *testing.T) {
	snap := civ.Snapshot{
		OwnCities:   []civ.City{{Name: "Home"}},
		Personality: civ.Personality{LandHunger: 0.8, Militarism: 0.6},
		OwnUnits:    []civ.Unit{{ID: 1, Strength: 30}},
		VisibleUnits: []civ.ForeignUnit{
			{Owner: 2, Strength: 40, Position: world.Point{X: 6, Y: 6}},
		},
		VisibleCities: []civ.ForeignCity{
			{Owner: 2, Name: "Rival", Position: world.Point{X: 7, Y: 7}},
		},
	}
	cands := HTNStrategy{}.Propose(snap, testRNG())
	if _, ok := findKind(cands, civ.ActionAttack); ok {
		t.Fatal("attack proposed against a stronger neighbor")
	}
}

func TestHTNQuietForContentCiv(t *testing.T) {
	snap := civ.Snapshot{
		OwnCities:   []civ.City{{Name: "Home"}},
		Personality: civ.Personality{LandHunger: 0.2, Militarism: 0.2, Interventionism: 0.2},
	}
	cands := HTNStrategy{}.Propose(snap, testRNG())
	if len(cands) != 0 {
		t.Fatalf("content civ produced candidates: %+v", cands)
	}
}
