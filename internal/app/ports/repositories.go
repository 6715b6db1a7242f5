package ports

import (
	"context"

	"dominion/internal/domain/civ"
)

// QueuedActionState is the serialized form of one pending queue entry. It is
// the persistence contract for save/load: the world and the execution engine
// are rebuilt by the host, only queue contents round-trip through storage.
type QueuedActionState struct {
	ID           uint64     `json:"id"`
	Action       civ.Action `json:"action"`
	Priority     float64    `json:"priority"`
	Attempts     uint8      `json:"attempts"`
	EnqueuedTurn int        `json:"enqueued_turn"`
	EarliestTurn int        `json:"earliest_turn"`
}

type QueueState struct {
	CivID   civ.CivID           `json:"civ_id"`
	NextSeq uint64              `json:"next_seq"`
	Actions []QueuedActionState `json:"actions"`
}

type QueueRepository interface {
	SaveQueues(ctx context.Context, gameID string, turn int, queues []QueueState) error
	LoadQueues(ctx context.Context, gameID string) (turn int, queues []QueueState, err error)
}

// CivReport is the per-civilization outcome tally of one processed turn, the
// only telemetry this subsystem emits.
type CivReport struct {
	CivID         civ.CivID `json:"civ_id"`
	Executed      int       `json:"executed"`
	Retried       int       `json:"retried"`
	DroppedRetry  int       `json:"dropped_retry"`
	DroppedFatal  int       `json:"dropped_fatal"`
	Rejected      int       `json:"rejected"`
	QueuedPending int       `json:"queued_pending"`
}

type TurnReport struct {
	Turn int         `json:"turn"`
	Civs []CivReport `json:"civs"`
}

type ReportRepository interface {
	Append(ctx context.Context, gameID string, report TurnReport) error
	ListByGameID(ctx context.Context, gameID string, limit int) ([]TurnReport, error)
}
