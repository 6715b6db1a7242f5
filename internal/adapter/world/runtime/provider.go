// Package runtime builds per-civilization planning snapshots from live game
// state, gated by each civilization's fog of war.
package runtime

import (
	"context"
	"sort"

	"dominion/internal/app/ports"
	"dominion/internal/domain/civ"
	"dominion/internal/domain/world"
)

const threatRadius = 10

type Provider struct {
	State *civ.GameState
}

func NewProvider(state *civ.GameState) Provider {
	return Provider{State: state}
}

func (p Provider) SnapshotFor(ctx context.Context, id civ.CivID) (civ.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return civ.Snapshot{}, err
	}
	actor, ok := p.State.Civs[id]
	if !ok || actor.Eliminated {
		return civ.Snapshot{}, ports.ErrNotFound
	}

	snap := civ.Snapshot{
		Turn:            p.State.Turn,
		Self:            id,
		Gold:            actor.Gold,
		Income:          actor.Income,
		TechnologyCount: len(actor.Technologies),
		Capital:         actor.Capital,
		Personality:     actor.Personality,
		TerritorySize:   len(actor.Territory),
		OwnUnits:        append([]civ.Unit(nil), actor.Units...),
		OwnCities:       append([]civ.City(nil), actor.Cities...),
		ExpansionTiles:  p.expansionTiles(actor),
	}

	threat := 0.0
	seen := map[civ.CivID]bool{}
	for _, otherID := range p.State.ActiveCivIDs() {
		if otherID == id {
			continue
		}
		other := p.State.Civs[otherID]
		for _, u := range other.Units {
			if actor.Fog == nil || !actor.Fog.IsVisible(u.Position) {
				continue
			}
			snap.VisibleUnits = append(snap.VisibleUnits, civ.ForeignUnit{
				Owner:    otherID,
				Type:     u.Type,
				Position: u.Position,
				Strength: u.Strength,
			})
			seen[otherID] = true
			if u.Position.ManhattanDistance(actor.Capital) <= threatRadius {
				threat += u.Strength
			}
		}
		for _, c := range other.Cities {
			if actor.Fog == nil || !actor.Fog.IsVisible(c.Position) {
				continue
			}
			snap.VisibleCities = append(snap.VisibleCities, civ.ForeignCity{
				Owner:    otherID,
				Name:     c.Name,
				Position: c.Position,
			})
			seen[otherID] = true
		}
	}
	snap.ThreatLevel = threat / (actor.MilitaryStrength() + 1)

	for otherID := range actor.Relations {
		seen[otherID] = true
	}
	known := make([]civ.CivID, 0, len(seen))
	for otherID := range seen {
		if other, ok := p.State.Civs[otherID]; ok && !other.Eliminated {
			known = append(known, otherID)
		}
	}
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })
	for _, otherID := range known {
		snap.KnownCivs = append(snap.KnownCivs, civ.KnownCiv{ID: otherID, Relation: actor.Relations[otherID]})
	}
	return snap, nil
}

// expansionTiles lists unclaimed passable tiles bordering the civilization's
// territory that it has explored, in a stable scan order.
func (p Provider) expansionTiles(actor *civ.Civilization) []world.Point {
	sources := actor.Territory
	if len(sources) == 0 {
		sources = []world.Point{actor.Capital}
	}
	var out []world.Point
	dedup := map[world.Point]bool{}
	for _, t := range sources {
		for _, n := range t.Neighbors() {
			if dedup[n] {
				continue
			}
			dedup[n] = true
			if !p.State.Map.IsPassable(n) {
				continue
			}
			if p.State.Map.OwnerAt(n) != 0 {
				continue
			}
			if actor.Fog != nil && !actor.Fog.IsExplored(n) {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}
