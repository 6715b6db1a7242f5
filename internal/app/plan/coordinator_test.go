package plan

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"dominion/internal/domain/civ"
	"dominion/internal/domain/world"
)

type stubStrategy struct {
	name  string
	cands []Candidate
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Propose(civ.Snapshot, *rand.Rand) []Candidate { return s.cands }

func testRNG() *rand.Rand { return rand.New(rand.NewSource(1)) }

func TestCoordinatorMergesDuplicates(t *testing.T) {
	target := world.Point{X: 1, Y: 2}
	c := NewCoordinator(nil,
		stubStrategy{name: "one", cands: []Candidate{
			{Action: civ.Action{Kind: civ.ActionExpand, Target: target}, Bonus: 0.2},
		}},
		stubStrategy{name: "two", cands: []Candidate{
			{Action: civ.Action{Kind: civ.ActionExpand, Target: target}, Bonus: 0.9},
		}},
	)

	out := c.Plan(context.Background(), civ.Snapshot{}, testRNG())
	if len(out) != 1 {
		t.Fatalf("got %d proposals, want 1 after dedup", len(out))
	}
	want := civ.DefaultBaseWeights()[civ.ActionExpand] + 0.9
	if out[0].Priority != want {
		t.Fatalf("priority = %v, want %v (highest bonus wins)", out[0].Priority, want)
	}
	if out[0].Source != "two" {
		t.Fatalf("source = %q, want the winning layer", out[0].Source)
	}
}

func TestCoordinatorClampsBonus(t *testing.T) {
	base := civ.DefaultBaseWeights()[civ.ActionResearch]
	cases := []struct {
		bonus float64
		want  float64
	}{
		{bonus: 3.0, want: base + 1},
		{bonus: -1.0, want: base},
		{bonus: math.NaN(), want: base},
		{bonus: 0.4, want: base + 0.4},
	}
	for _, tc := range cases {
		c := NewCoordinator(nil, stubStrategy{name: "s", cands: []Candidate{
			{Action: civ.Action{Kind: civ.ActionResearch, Technology: "writing"}, Bonus: tc.bonus},
		}})
		out := c.Plan(context.Background(), civ.Snapshot{}, testRNG())
		if len(out) != 1 || out[0].Priority != tc.want {
			t.Fatalf("bonus %v: proposals = %+v, want single priority %v", tc.bonus, out, tc.want)
		}
	}
}

func TestCoordinatorOrdersByPriority(t *testing.T) {
	c := NewCoordinator(nil, stubStrategy{name: "s", cands: []Candidate{
		{Action: civ.Action{Kind: civ.ActionTrade, TargetCiv: 2}, Bonus: 0.9},
		{Action: civ.Action{Kind: civ.ActionDefend}, Bonus: 0},
		{Action: civ.Action{Kind: civ.ActionAttack, TargetCiv: 3}, Bonus: 0},
	}})

	out := c.Plan(context.Background(), civ.Snapshot{}, testRNG())
	kinds := []civ.ActionKind{}
	for _, p := range out {
		kinds = append(kinds, p.Action.Kind)
	}
	want := []civ.ActionKind{civ.ActionDefend, civ.ActionAttack, civ.ActionTrade}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("order = %v, want %v", kinds, want)
		}
	}
}

func TestCoordinatorStableForEqualPriorities(t *testing.T) {
	weights := map[civ.ActionKind]float64{
		civ.ActionExpand:  1,
		civ.ActionExplore: 1,
	}
	c := NewCoordinator(weights, stubStrategy{name: "s", cands: []Candidate{
		{Action: civ.Action{Kind: civ.ActionExpand, Target: world.Point{X: 1}}, Bonus: 0.5},
		{Action: civ.Action{Kind: civ.ActionExplore, Target: world.Point{X: 2}}, Bonus: 0.5},
	}})

	out := c.Plan(context.Background(), civ.Snapshot{}, testRNG())
	if len(out) != 2 {
		t.Fatalf("got %d proposals, want 2", len(out))
	}
	if out[0].Action.Kind != civ.ActionExpand || out[1].Action.Kind != civ.ActionExplore {
		t.Fatalf("equal priorities reordered: %+v", out)
	}
}

func TestCoordinatorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCoordinator(nil, stubStrategy{name: "s", cands: []Candidate{
		{Action: civ.Action{Kind: civ.ActionDefend}},
	}})
	if out := c.Plan(ctx, civ.Snapshot{}, testRNG()); out != nil {
		t.Fatalf("plan under canceled context = %+v, want nil", out)
	}
}
