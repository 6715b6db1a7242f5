package memory

import (
	"context"

	"dominion/internal/app/ports"
)

type QueueRepo struct {
	store *Store
}

func NewQueueRepo(store *Store) QueueRepo {
	return QueueRepo{store: store}
}

func (r QueueRepo) SaveQueues(_ context.Context, gameID string, turn int, queues []ports.QueueState) error {
	saved := savedGame{turn: turn, queues: make([]ports.QueueState, len(queues))}
	for i, q := range queues {
		cp := q
		cp.Actions = append([]ports.QueuedActionState(nil), q.Actions...)
		saved.queues[i] = cp
	}
	r.store.saves[gameID] = saved
	return nil
}

func (r QueueRepo) LoadQueues(_ context.Context, gameID string) (int, []ports.QueueState, error) {
	saved, ok := r.store.saves[gameID]
	if !ok {
		return 0, nil, ports.ErrNotFound
	}
	out := make([]ports.QueueState, len(saved.queues))
	for i, q := range saved.queues {
		cp := q
		cp.Actions = append([]ports.QueuedActionState(nil), q.Actions...)
		out[i] = cp
	}
	return saved.turn, out, nil
}
