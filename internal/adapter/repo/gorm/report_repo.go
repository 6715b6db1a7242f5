package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dominion/internal/adapter/repo/gorm/model"
	"dominion/internal/app/ports"
)

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return ReportRepo{db: db}
}

func (r ReportRepo) Append(ctx context.Context, gameID string, report ports.TurnReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal turn report: %w", err)
	}
	row := model.TurnReport{GameID: gameID, Turn: report.Turn, Payload: payload}
	return sessionDB(ctx, r.db).Create(&row).Error
}

func (r ReportRepo) ListByGameID(ctx context.Context, gameID string, limit int) ([]ports.TurnReport, error) {
	rows := []model.TurnReport{}
	query := sessionDB(ctx, r.db).
		Where(&model.TurnReport{GameID: gameID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "turn"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.TurnReport, 0, len(rows))
	for _, row := range rows {
		var report ports.TurnReport
		if err := json.Unmarshal(row.Payload, &report); err != nil {
			return nil, fmt.Errorf("unmarshal turn report %d: %w", row.Turn, err)
		}
		out = append(out, report)
	}
	return out, nil
}
