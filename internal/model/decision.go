package model

// Reason explains a withdrawal decision.
type Reason string

const (
	// ReasonEligible: every security check passed.
	ReasonEligible Reason = "ELIGIBLE"
	// ReasonMinimumWait: the mandatory minimum unbonding period has not elapsed.
	ReasonMinimumWait Reason = "MINIMUM_WAIT"
	// ReasonThresholdExceeded: a lookback era's cumulative unbond exceeds its unlock capacity.
	ReasonThresholdExceeded Reason = "THRESHOLD_EXCEEDED"
	// ReasonStaleWindow: the request predates the tracked window, so no
	// historical check can apply.
	ReasonStaleWindow Reason = "STALE_WINDOW"
	// ReasonWithdrawn: the chunk has already been withdrawn.
	ReasonWithdrawn Reason = "ALREADY_WITHDRAWN"
)

// Decision is the output of the withdrawal evaluator.
type Decision struct {
	Eligible      bool
	Reason        Reason
	ViolationEra  int // era whose threshold was exceeded; meaningful only for ReasonThresholdExceeded
	ErasRemaining int // estimated eras until eligibility; 0 when eligible
}
