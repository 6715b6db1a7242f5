package plan

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"dominion/internal/domain/civ"
)

const (
	minSituationalBonus = 0.0
	maxSituationalBonus = 1.0
)

// Coordinator merges the candidate streams of every configured decision layer
// for one civilization and one turn. It is a pure transformation over the
// snapshot: all cross-turn memory lives in the action queues.
type Coordinator struct {
	Strategies  []Strategy
	BaseWeights map[civ.ActionKind]float64
}

func NewCoordinator(weights map[civ.ActionKind]float64, strategies ...Strategy) *Coordinator {
	if len(weights) == 0 {
		weights = civ.DefaultBaseWeights()
	}
	return &Coordinator{Strategies: strategies, BaseWeights: weights}
}

// Plan runs every layer against the same snapshot, deduplicates candidates
// aimed at the same (kind, target) pair keeping the highest bonus, clamps each
// bonus into [0, 1] and resolves the final priority. The result is sorted by
// priority descending with a stable key so identical snapshots always produce
// identical proposal lists.
func (c *Coordinator) Plan(ctx context.Context, snap civ.Snapshot, rng *rand.Rand) []Proposal {
	type merged struct {
		cand Candidate
		seq  int
	}
	best := map[string]merged{}
	order := []string{}
	seq := 0

	for _, s := range c.Strategies {
		if ctx.Err() != nil {
			return nil
		}
		for _, cand := range s.Propose(snap, rng) {
			cand.Bonus = clampBonus(cand.Bonus)
			if cand.Source == "" {
				cand.Source = s.Name()
			}
			key := string(cand.Action.Kind) + "|" + cand.Action.TargetKey()
			prev, seen := best[key]
			if !seen {
				best[key] = merged{cand: cand, seq: seq}
				order = append(order, key)
				seq++
				continue
			}
			if cand.Bonus > prev.cand.Bonus {
				best[key] = merged{cand: cand, seq: prev.seq}
			}
		}
	}

	out := make([]Proposal, 0, len(order))
	for _, key := range order {
		m := best[key]
		out = append(out, Proposal{
			Action:   m.cand.Action,
			Priority: c.BaseWeights[m.cand.Action.Kind] + m.cand.Bonus,
			Source:   m.cand.Source,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

func clampBonus(b float64) float64 {
	if math.IsNaN(b) {
		return minSituationalBonus
	}
	if b < minSituationalBonus {
		return minSituationalBonus
	}
	if b > maxSituationalBonus {
		return maxSituationalBonus
	}
	return b
}
