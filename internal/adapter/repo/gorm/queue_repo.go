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

type QueueRepo struct {
	db *gorm.DB
}

func NewQueueRepo(db *gorm.DB) QueueRepo {
	return QueueRepo{db: db}
}

func (r QueueRepo) SaveQueues(ctx context.Context, gameID string, turn int, queues []ports.QueueState) error {
	db := sessionDB(ctx, r.db)
	// Queues for eliminated civilizations must not survive a save.
	if err := db.Where("game_id = ?", gameID).Delete(&model.GameQueue{}).Error; err != nil {
		return fmt.Errorf("clear queues for game %s: %w", gameID, err)
	}
	if len(queues) == 0 {
		return nil
	}
	rows := make([]model.GameQueue, 0, len(queues))
	for _, q := range queues {
		payload, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal queue for civ %d: %w", q.CivID, err)
		}
		rows = append(rows, model.GameQueue{
			GameID:  gameID,
			CivID:   uint32(q.CivID),
			Turn:    turn,
			Payload: payload,
		})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "civ_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}

func (r QueueRepo) LoadQueues(ctx context.Context, gameID string) (int, []ports.QueueState, error) {
	rows := []model.GameQueue{}
	err := sessionDB(ctx, r.db).
		Where("game_id = ?", gameID).
		Order("civ_id asc").
		Find(&rows).Error
	if err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return 0, nil, ports.ErrNotFound
	}

	turn := 0
	out := make([]ports.QueueState, 0, len(rows))
	for _, row := range rows {
		var state ports.QueueState
		if err := json.Unmarshal(row.Payload, &state); err != nil {
			return 0, nil, fmt.Errorf("unmarshal queue for civ %d: %w", row.CivID, err)
		}
		out = append(out, state)
		if row.Turn > turn {
			turn = row.Turn
		}
	}
	return turn, out, nil
}
