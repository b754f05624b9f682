package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRequest(_ *RequestEvent) error       { return nil }
func (n *NoopRecorder) RecordRebond(_ *RebondEvent) error         { return nil }
func (n *NoopRecorder) RecordAdvance(_ *AdvanceEvent) error       { return nil }
func (n *NoopRecorder) RecordEvaluation(_ *EvaluationEvent) error { return nil }
func (n *NoopRecorder) RecordReplay(_ *ReplayEvent) error         { return nil }
func (n *NoopRecorder) Close() error                              { return nil }
