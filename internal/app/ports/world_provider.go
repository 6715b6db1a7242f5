package ports

import (
	"context"

	"dominion/internal/domain/civ"
)

// WorldProvider builds the fog-gated planning snapshot for one civilization.
// Snapshots taken within the same turn must all describe the state as of the
// turn boundary, regardless of call order.
type WorldProvider interface {
	SnapshotFor(ctx context.Context, id civ.CivID) (civ.Snapshot, error)
}
