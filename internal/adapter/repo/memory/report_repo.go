package memory

import (
	"context"

	"dominion/internal/app/ports"
)

type ReportRepo struct {
	store *Store
}

func NewReportRepo(store *Store) ReportRepo {
	return ReportRepo{store: store}
}

func (r ReportRepo) Append(_ context.Context, gameID string, report ports.TurnReport) error {
	r.store.reportsMu.Lock()
	defer r.store.reportsMu.Unlock()
	r.store.reports[gameID] = append(r.store.reports[gameID], report)
	return nil
}

func (r ReportRepo) ListByGameID(_ context.Context, gameID string, limit int) ([]ports.TurnReport, error) {
	r.store.reportsMu.Lock()
	defer r.store.reportsMu.Unlock()
	reports := r.store.reports[gameID]
	if len(reports) == 0 {
		return nil, ports.ErrNotFound
	}
	// Newest first, matching the SQL adapter.
	out := make([]ports.TurnReport, 0, len(reports))
	for i := len(reports) - 1; i >= 0; i-- {
		out = append(out, reports[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
