package recorder

// RequestEvent records the creation of an unbonding request.
type RequestEvent struct {
	ChunkID       string
	Amount        float64
	StartEra      int
	PrevUnbonded  float64
	EstimatedEras int
}

// RebondEvent records a full or partial cancellation of a request.
type RebondEvent struct {
	ChunkID        string
	Requested      float64
	Actual         float64
	Remaining      float64
	Removed        bool
	LedgerAdjusted bool // false when the origin era had aged out of the window
}

// AdvanceEvent records an era-window shift.
type AdvanceEvent struct {
	By         int
	CurrentEra int
}

// EvaluationEvent records one withdrawal decision for a chunk.
type EvaluationEvent struct {
	ChunkID       string
	Era           int
	Eligible      bool
	Reason        string
	ViolationEra  int
	ErasRemaining int
}

// ReplayEvent records one row of a historical replay analysis.
type ReplayEvent struct {
	Era           int
	TotalStake    float64
	Unbonded      float64
	EstimatedEras int
	HasEstimate   bool
}

// Recorder persists simulation history for analysis.
type Recorder interface {
	RecordRequest(evt *RequestEvent) error
	RecordRebond(evt *RebondEvent) error
	RecordAdvance(evt *AdvanceEvent) error
	RecordEvaluation(evt *EvaluationEvent) error
	RecordReplay(evt *ReplayEvent) error
	Close() error
}
