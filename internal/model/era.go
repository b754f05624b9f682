package model

// EraRecord holds the per-era statistics tracked inside the sliding window.
type EraRecord struct {
	Era              int
	LowestThirdStake float64 // stake backing the lowest-third validator set (exogenous)
	TotalUnbond      float64 // principal of unbonding requests that started this era
}

// Threshold is the per-era unlock capacity: the unlockable fraction of the
// lowest-third stake.
func (r EraRecord) Threshold(p NetworkParameters) float64 {
	return p.UnlockableShare() * r.LowestThirdStake
}
