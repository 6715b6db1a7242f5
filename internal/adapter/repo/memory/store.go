package memory

import (
	"sync"

	"dominion/internal/app/ports"
)

type savedGame struct {
	turn   int
	queues []ports.QueueState
}

// Store is the in-memory backing for all repositories. mu serializes whole
// transactions through the TxManager; reports are appended outside any
// transaction, so they carry their own lock.
type Store struct {
	mu    sync.RWMutex
	saves map[string]savedGame

	reportsMu sync.Mutex
	reports   map[string][]ports.TurnReport
}

func NewStore() *Store {
	return &Store{
		saves:   make(map[string]savedGame),
		reports: make(map[string][]ports.TurnReport),
	}
}
