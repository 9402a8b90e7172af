package domain

// Statistics aggregates counters derived from the history store.
type Statistics struct {
	TotalRuns      int
	TimedOutRuns   int
	KilledRuns     int
	DiagnosticRuns int
	TimeoutRate    float64 // percentage, 0 when TotalRuns is 0
	AvgDuration    float64 // seconds, over entries with a recorded duration
	MinDuration    float64
	MaxDuration    float64
	Slowest        []CommandResult // duration > SlowCommandThreshold, descending
}
