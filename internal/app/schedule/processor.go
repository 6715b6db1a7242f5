package schedule

import (
	"context"
	"errors"
	"hash/fnv"
	"log"
	"math/rand"
	"sort"
	"sync"

	"dominion/internal/app/plan"
	"dominion/internal/app/ports"
	"dominion/internal/domain/civ"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePopulating Phase = "populating"
	PhaseSelecting  Phase = "selecting"
	PhaseExecuting  Phase = "executing"
	PhaseAdvancing  Phase = "advancing"
)

// Processor drives one turn for every civilization: populate queues from the
// planners, select within each turn budget, execute sequentially, advance.
// It owns the per-civilization queues exclusively; nothing else mutates them.
type Processor struct {
	cfg     Config
	planner plan.Planner
	world   ports.WorldProvider
	engine  ports.ExecutionEngine
	metrics ports.TurnMetrics

	seed      int64
	turn      int
	phase     Phase
	queues    map[civ.CivID]*Queue
	cooldowns map[civ.CivID]int
}

func NewProcessor(cfg Config, planner plan.Planner, world ports.WorldProvider, engine ports.ExecutionEngine, metrics ports.TurnMetrics, seed int64) *Processor {
	return &Processor{
		cfg:       cfg.withDefaults(),
		planner:   planner,
		world:     world,
		engine:    engine,
		metrics:   metrics,
		seed:      seed,
		turn:      1,
		phase:     PhaseIdle,
		queues:    map[civ.CivID]*Queue{},
		cooldowns: map[civ.CivID]int{},
	}
}

func (p *Processor) Turn() int    { return p.turn }
func (p *Processor) Phase() Phase { return p.phase }

// QueueFor returns the queue for a civilization, creating it on first use.
func (p *Processor) QueueFor(id civ.CivID) *Queue {
	q, ok := p.queues[id]
	if !ok {
		q = NewQueue(id, p.cfg.MaxQueueSize, p.cfg.StrictPriorities)
		p.queues[id] = q
	}
	return q
}

// EliminateCiv tears down a civilization's queue, discarding every pending
// action without retry. Returns the number discarded.
func (p *Processor) EliminateCiv(id civ.CivID) int {
	q, ok := p.queues[id]
	if !ok {
		return 0
	}
	n := q.Clear()
	delete(p.queues, id)
	delete(p.cooldowns, id)
	return n
}

// ProcessTurn runs one full scheduling turn over the given civilizations. The
// slice is re-sorted ascending so processing order never depends on the
// caller.
func (p *Processor) ProcessTurn(ctx context.Context, civs []civ.CivID) (ports.TurnReport, error) {
	order := make([]civ.CivID, len(civs))
	copy(order, civs)
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	tallies := make(map[civ.CivID]*ports.CivReport, len(order))
	for _, id := range order {
		tallies[id] = &ports.CivReport{CivID: id}
	}

	p.phase = PhasePopulating
	if err := p.populate(ctx, order, tallies); err != nil {
		p.phase = PhaseIdle
		return ports.TurnReport{}, err
	}

	p.phase = PhaseSelecting
	selected := p.selectActions(order)

	p.phase = PhaseExecuting
	if err := p.execute(ctx, selected, tallies); err != nil {
		p.phase = PhaseIdle
		return ports.TurnReport{}, err
	}

	p.phase = PhaseAdvancing
	report := ports.TurnReport{Turn: p.turn, Civs: make([]ports.CivReport, 0, len(order))}
	for _, id := range order {
		t := tallies[id]
		if q, ok := p.queues[id]; ok {
			t.QueuedPending = q.Len()
		}
		report.Civs = append(report.Civs, *t)
	}
	p.turn++
	p.phase = PhaseIdle
	return report, nil
}

// populate evaluates the decision layers for every civilization off cooldown.
// Planning runs on a worker pool against immutable snapshots; results are
// merged back in civilization order so thread scheduling cannot change the
// outcome.
func (p *Processor) populate(ctx context.Context, order []civ.CivID, tallies map[civ.CivID]*ports.CivReport) error {
	type job struct {
		idx int
		id  civ.CivID
	}
	proposals := make([][]plan.Proposal, len(order))
	planned := make([]bool, len(order))

	jobs := make(chan job)
	var wg sync.WaitGroup
	workers := p.cfg.PlannerWorkers
	if workers > len(order) {
		workers = len(order)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				snap, err := p.world.SnapshotFor(ctx, j.id)
				if err != nil {
					log.Printf("schedule: snapshot for civ %d failed, skipping planning: %v", j.id, err)
					continue
				}
				rng := rand.New(rand.NewSource(subSeed(p.seed, j.id, p.turn)))
				proposals[j.idx] = p.planner.Plan(ctx, snap, rng)
			}
		}()
	}
	for i, id := range order {
		// A cooldown of n rests the planner for n full turns; it ticks down
		// only on turns the civ actually sat out.
		if cd := p.cooldowns[id]; cd > 0 {
			p.cooldowns[id] = cd - 1
			continue
		}
		planned[i] = true
		select {
		case jobs <- job{idx: i, id: id}:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, id := range order {
		if !planned[i] {
			continue
		}
		produced := proposals[i]
		q := p.QueueFor(id)
		for _, prop := range produced {
			res := q.Enqueue(prop.Action, prop.Priority, p.turn, 0)
			if res.Outcome == EnqueueRejected {
				tallies[id].Rejected++
				p.recordRejected()
				log.Printf("schedule: civ %d rejected %s at priority %.2f (queue full)", id, prop.Action, prop.Priority)
			}
		}
		p.cooldowns[id] = cooldownFor(len(produced))
	}
	return nil
}

// cooldownFor matches planner pacing to output volume: prolific turns buy the
// planner a rest.
func cooldownFor(produced int) int {
	switch {
	case produced <= 1:
		return 0
	case produced <= 3:
		return 1
	default:
		return 2
	}
}

type selectedAction struct {
	civID civ.CivID
	entry QueuedAction
}

// selectActions peeks each queue within the turn budget and orders the union
// by priority, then civilization ID, then sequence. That is the serialization
// order of the Execute phase.
func (p *Processor) selectActions(order []civ.CivID) []selectedAction {
	var out []selectedAction
	for _, id := range order {
		q, ok := p.queues[id]
		if !ok {
			continue
		}
		for _, entry := range q.PeekEligible(p.turn, p.cfg.ActionsPerTurn) {
			out = append(out, selectedAction{civID: id, entry: entry})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.entry.Priority != b.entry.Priority {
			return a.entry.Priority > b.entry.Priority
		}
		if a.civID != b.civID {
			return a.civID < b.civID
		}
		return a.entry.ID < b.entry.ID
	})
	return out
}

func (p *Processor) execute(ctx context.Context, selected []selectedAction, tallies map[civ.CivID]*ports.CivReport) error {
	for _, sel := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		q, ok := p.queues[sel.civID]
		if !ok {
			continue
		}
		t := tallies[sel.civID]

		err := p.engine.Apply(ctx, sel.civID, sel.entry.Action)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			// The engine never ran this action; it stays queued for the next
			// turn instead of counting as a failure.
			return err
		}
		switch {
		case err == nil:
			q.Remove(sel.entry.ID)
			t.Executed++
			p.recordExecuted()

		case ports.IsRecoverable(err):
			if sel.entry.Attempts < *p.cfg.MaxRetries {
				q.Requeue(sel.entry.ID, sel.entry.Priority+*p.cfg.RetryPriorityBoost, p.turn+p.cfg.RetryDelayTurns)
				t.Retried++
				p.recordRetried()
			} else {
				q.Remove(sel.entry.ID)
				t.DroppedRetry++
				p.recordDroppedRetries()
				log.Printf("schedule: civ %d dropped %s after %d attempts: %v", sel.civID, sel.entry.Action, sel.entry.Attempts+1, err)
			}

		default:
			// Fatal, and anything untyped is treated as fatal: the action is
			// structurally invalid and retrying cannot help.
			q.Remove(sel.entry.ID)
			t.DroppedFatal++
			p.recordDroppedFatal()
			log.Printf("schedule: civ %d dropped %s permanently: %v", sel.civID, sel.entry.Action, err)
		}
	}
	return nil
}

// QueueStates serializes every live queue in civilization order.
func (p *Processor) QueueStates() []ports.QueueState {
	ids := make([]civ.CivID, 0, len(p.queues))
	for id := range p.queues {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]ports.QueueState, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.queues[id].State())
	}
	return out
}

// RestoreQueues replaces all queue state from a save. Cooldowns restart cold;
// they are pacing hints, not simulation state.
func (p *Processor) RestoreQueues(turn int, states []ports.QueueState) {
	p.turn = turn
	p.phase = PhaseIdle
	p.queues = make(map[civ.CivID]*Queue, len(states))
	p.cooldowns = map[civ.CivID]int{}
	for _, s := range states {
		p.queues[s.CivID] = RestoreQueue(s, p.cfg.MaxQueueSize, p.cfg.StrictPriorities)
	}
}

func subSeed(seed int64, id civ.CivID, turn int) int64 {
	h := fnv.New64a()
	var buf [20]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(seed >> (8 * i))
	}
	for i := 0; i < 4; i++ {
		buf[8+i] = byte(uint32(id) >> (8 * i))
	}
	for i := 0; i < 8; i++ {
		buf[12+i] = byte(uint64(turn) >> (8 * i))
	}
	h.Write(buf[:])
	return int64(h.Sum64())
}

func (p *Processor) recordExecuted() {
	if p.metrics != nil {
		p.metrics.RecordExecuted()
	}
}

func (p *Processor) recordRetried() {
	if p.metrics != nil {
		p.metrics.RecordRetried()
	}
}

func (p *Processor) recordDroppedRetries() {
	if p.metrics != nil {
		p.metrics.RecordDroppedRetries()
	}
}

func (p *Processor) recordDroppedFatal() {
	if p.metrics != nil {
		p.metrics.RecordDroppedFatal()
	}
}

func (p *Processor) recordRejected() {
	if p.metrics != nil {
		p.metrics.RecordRejected()
	}
}
