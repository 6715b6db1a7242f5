package model

import "time"

// GameQueue stores one civilization's serialized action queue for one game.
// Payload is the JSON form of ports.QueueState.
type GameQueue struct {
	ID        uint   `gorm:"primaryKey"`
	GameID    string `gorm:"index:idx_game_civ,unique"`
	CivID     uint32 `gorm:"index:idx_game_civ,unique"`
	Turn      int
	Payload   []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// TurnReport stores one processed turn's outcome tally for one game.
type TurnReport struct {
	ID        uint   `gorm:"primaryKey"`
	GameID    string `gorm:"index"`
	Turn      int
	Payload   []byte `gorm:"type:jsonb"`
	CreatedAt time.Time
}
