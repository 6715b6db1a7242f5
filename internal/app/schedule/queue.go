package schedule

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"dominion/internal/app/ports"
	"dominion/internal/domain/civ"
)

// QueuedAction is one pending entry of a civilization's action queue. The
// queue owns it exclusively; the processor only ever sees copies.
type QueuedAction struct {
	ID           uint64
	Action       civ.Action
	Priority     float64
	Attempts     uint8
	EnqueuedTurn int
	EarliestTurn int

	index int
}

type EnqueueOutcome uint8

const (
	// EnqueueAccepted: the action was admitted with free capacity.
	EnqueueAccepted EnqueueOutcome = iota
	// EnqueueEvicted: the action was admitted by evicting the lowest-priority
	// resident.
	EnqueueEvicted
	// EnqueueRejected: the queue was full and the candidate could not outrank
	// any resident entry. The queue is unchanged.
	EnqueueRejected
)

type EnqueueResult struct {
	Outcome   EnqueueOutcome
	ID        uint64
	EvictedID uint64
}

// Queue is a per-civilization bounded priority queue. Ordering is priority
// descending, then enqueue turn ascending, then sequence number ascending, so
// identical inputs always drain in the same order.
type Queue struct {
	CivID civ.CivID

	maxSize int
	strict  bool
	nextSeq uint64
	items   entryHeap
	byID    map[uint64]*QueuedAction
}

func NewQueue(id civ.CivID, maxSize int, strict bool) *Queue {
	if maxSize <= 0 {
		maxSize = defaultMaxQueueSize
	}
	return &Queue{
		CivID:   id,
		maxSize: maxSize,
		strict:  strict,
		byID:    map[uint64]*QueuedAction{},
	}
}

func (q *Queue) Len() int { return len(q.items) }

// Enqueue admits an action at the given priority. delayTurns > 0 schedules it
// for a future turn; it stays in the queue but is skipped by PeekEligible
// until then. On overflow the lowest-priority resident is evicted unless the
// newcomer is itself the minimum, in which case the newcomer is rejected.
// Priority ties in the capacity contest favor the resident entry.
func (q *Queue) Enqueue(action civ.Action, priority float64, currentTurn, delayTurns int) EnqueueResult {
	priority = q.normalize(priority)
	if delayTurns < 0 {
		delayTurns = 0
	}

	var evictedID uint64
	outcome := EnqueueAccepted
	if len(q.items) >= q.maxSize {
		victim := q.minimum()
		if victim == nil || priority <= victim.Priority {
			return EnqueueResult{Outcome: EnqueueRejected}
		}
		evictedID = victim.ID
		q.removeEntry(victim)
		outcome = EnqueueEvicted
	}

	q.nextSeq++
	entry := &QueuedAction{
		ID:           q.nextSeq,
		Action:       action,
		Priority:     priority,
		EnqueuedTurn: currentTurn,
		EarliestTurn: currentTurn + delayTurns,
	}
	heap.Push(&q.items, entry)
	q.byID[entry.ID] = entry
	return EnqueueResult{Outcome: outcome, ID: entry.ID, EvictedID: evictedID}
}

// PeekEligible returns copies of up to limit entries whose scheduled turn has
// arrived, highest priority first, without removing anything. Calling it twice
// on the same state yields the same selection.
func (q *Queue) PeekEligible(currentTurn, limit int) []QueuedAction {
	if limit <= 0 {
		return nil
	}
	ordered := make([]*QueuedAction, len(q.items))
	copy(ordered, q.items)
	sort.Slice(ordered, func(i, j int) bool { return entryLess(ordered[i], ordered[j]) })

	out := make([]QueuedAction, 0, limit)
	for _, e := range ordered {
		if e.EarliestTurn > currentTurn {
			continue
		}
		out = append(out, *e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Remove deletes an entry after a terminal outcome (success or drop).
func (q *Queue) Remove(id uint64) bool {
	e, ok := q.byID[id]
	if !ok {
		return false
	}
	q.removeEntry(e)
	return true
}

// Requeue reinstates a failed entry for a retry: attempts are incremented, the
// priority replaced and the entry withheld until notBefore.
func (q *Queue) Requeue(id uint64, newPriority float64, notBefore int) bool {
	e, ok := q.byID[id]
	if !ok {
		return false
	}
	e.Attempts++
	e.Priority = q.normalize(newPriority)
	e.EarliestTurn = notBefore
	heap.Fix(&q.items, e.index)
	return true
}

// Clear discards every pending entry, returning how many were dropped. Used
// when the owning civilization is eliminated.
func (q *Queue) Clear() int {
	n := len(q.items)
	q.items = q.items[:0]
	q.byID = map[uint64]*QueuedAction{}
	return n
}

// State serializes the queue for the persistence hook.
func (q *Queue) State() ports.QueueState {
	ordered := make([]*QueuedAction, len(q.items))
	copy(ordered, q.items)
	sort.Slice(ordered, func(i, j int) bool { return entryLess(ordered[i], ordered[j]) })

	s := ports.QueueState{CivID: q.CivID, NextSeq: q.nextSeq, Actions: make([]ports.QueuedActionState, 0, len(ordered))}
	for _, e := range ordered {
		s.Actions = append(s.Actions, ports.QueuedActionState{
			ID:           e.ID,
			Action:       e.Action,
			Priority:     e.Priority,
			Attempts:     e.Attempts,
			EnqueuedTurn: e.EnqueuedTurn,
			EarliestTurn: e.EarliestTurn,
		})
	}
	return s
}

// RestoreQueue rebuilds a queue from its serialized state.
func RestoreQueue(state ports.QueueState, maxSize int, strict bool) *Queue {
	q := NewQueue(state.CivID, maxSize, strict)
	q.nextSeq = state.NextSeq
	for _, a := range state.Actions {
		e := &QueuedAction{
			ID:           a.ID,
			Action:       a.Action,
			Priority:     q.normalize(a.Priority),
			Attempts:     a.Attempts,
			EnqueuedTurn: a.EnqueuedTurn,
			EarliestTurn: a.EarliestTurn,
		}
		heap.Push(&q.items, e)
		q.byID[e.ID] = e
		if e.ID > q.nextSeq {
			q.nextSeq = e.ID
		}
	}
	return q
}

func (q *Queue) normalize(priority float64) float64 {
	if math.IsNaN(priority) || math.IsInf(priority, 0) {
		if q.strict {
			panic(fmt.Sprintf("schedule: non-finite priority %v for civ %d", priority, q.CivID))
		}
		return 0
	}
	return priority
}

// minimum returns the entry that loses a capacity contest: lowest priority,
// and among equals the youngest (older entries win ties).
func (q *Queue) minimum() *QueuedAction {
	var min *QueuedAction
	for _, e := range q.items {
		if min == nil || entryLess(min, e) {
			min = e
		}
	}
	return min
}

func (q *Queue) removeEntry(e *QueuedAction) {
	heap.Remove(&q.items, e.index)
	delete(q.byID, e.ID)
}

// entryLess orders a before b: higher priority first, then older enqueue turn,
// then lower sequence number.
func entryLess(a, b *QueuedAction) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.EnqueuedTurn != b.EnqueuedTurn {
		return a.EnqueuedTurn < b.EnqueuedTurn
	}
	return a.ID < b.ID
}

type entryHeap []*QueuedAction

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return entryLess(h[i], h[j]) }

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*QueuedAction)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
