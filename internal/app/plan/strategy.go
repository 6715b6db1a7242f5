package plan

import (
	"context"
	"math/rand"

	"dominion/internal/domain/civ"
)

// Candidate is an action proposed by one decision layer, before merging. Bonus
// is the layer's situational urgency contribution; the coordinator clamps it
// and adds the per-kind base weight to form the final queue priority.
type Candidate struct {
	Action civ.Action
	Bonus  float64
	Source string
}

// Strategy is one interchangeable decision layer. Propose must treat the
// snapshot as read-only and draw all randomness from rng, so that planning is
// reproducible and safe to run concurrently across civilizations.
type Strategy interface {
	Name() string
	Propose(snap civ.Snapshot, rng *rand.Rand) []Candidate
}

// Proposal is a merged candidate with its final priority, ready to enqueue.
type Proposal struct {
	Action   civ.Action
	Priority float64
	Source   string
}

type Planner interface {
	Plan(ctx context.Context, snap civ.Snapshot, rng *rand.Rand) []Proposal
}
