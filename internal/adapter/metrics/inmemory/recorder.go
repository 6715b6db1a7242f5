package inmemory

import "sync"

type Snapshot struct {
	Total        uint64 `json:"total"`
	Executed     uint64 `json:"executed"`
	Retried      uint64 `json:"retried"`
	DroppedRetry uint64 `json:"dropped_retry"`
	DroppedFatal uint64 `json:"dropped_fatal"`
	Rejected     uint64 `json:"rejected"`
}

// Recorder tallies scheduling outcomes across every game served by this
// process. It backs the ops KPI endpoint.
type Recorder struct {
	mu           sync.Mutex
	executed     uint64
	retried      uint64
	droppedRetry uint64
	droppedFatal uint64
	rejected     uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordExecuted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executed++
}

func (r *Recorder) RecordRetried() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retried++
}

func (r *Recorder) RecordDroppedRetries() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.droppedRetry++
}

func (r *Recorder) RecordDroppedFatal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.droppedFatal++
}

func (r *Recorder) RecordRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Total:        r.executed + r.retried + r.droppedRetry + r.droppedFatal + r.rejected,
		Executed:     r.executed,
		Retried:      r.retried,
		DroppedRetry: r.droppedRetry,
		DroppedFatal: r.droppedFatal,
		Rejected:     r.rejected,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
