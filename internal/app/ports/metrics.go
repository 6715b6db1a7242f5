package ports

// TurnMetrics receives scheduling outcomes as they happen. Implementations
// must be safe for use from a single goroutine only; the processor reports
// sequentially.
type TurnMetrics interface {
	RecordExecuted()
	RecordRetried()
	RecordDroppedRetries()
	RecordDroppedFatal()
	RecordRejected()
}
