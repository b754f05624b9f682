package evaluator

import "UnbondSim/internal/model"

// Window is the read-only view of per-era statistics the evaluator scans.
// The live ledger implements it; the replay analyzer implements it over a
// historical series. Absent eras must report zero for both methods.
type Window interface {
	ThresholdFor(era int) float64
	TotalUnbondIn(era int) float64
}

// CanWithdraw decides whether a chunk may be withdrawn at currentEra.
//
// The check runs in three steps: the mandatory minimum wait, the
// stale-window shortcut (a request older than the tracked window cannot be
// held against data that no longer exists), and the backward windowed scan.
// The scan walks lookback eras from the current era towards the chunk's
// start era, comparing the cumulative unbond total of [lookback, current]
// against the lookback era's unlock capacity. The comparison is non-strict:
// a total exactly at the threshold passes.
func CanWithdraw(c *model.UnlockChunk, w Window, p model.NetworkParameters, currentEra int) model.Decision {
	if wait := c.StartEra + p.MinUnbondingEras - currentEra; wait > 0 {
		return model.Decision{
			Reason:        model.ReasonMinimumWait,
			ErasRemaining: wait,
		}
	}
	if c.StartEra < currentEra-(p.BondingDuration-1) {
		return model.Decision{Eligible: true, Reason: model.ReasonStaleWindow}
	}

	// Cumulative sum over [lookback, current] is maintained incrementally:
	// each iteration extends the range by one older era.
	sum := 0.0
	for k := 1; k <= p.BondingDuration; k++ {
		era := currentEra - k + 1
		if era < c.StartEra {
			break
		}
		sum += contribution(c, w, era)
		if sum > w.ThresholdFor(era) {
			return model.Decision{
				Reason:        model.ReasonThresholdExceeded,
				ViolationEra:  era,
				ErasRemaining: maxInt(0, p.BondingDuration-(k-1), p.MinUnbondingEras, c.StartEra+p.MinUnbondingEras-currentEra),
			}
		}
	}
	return model.Decision{Eligible: true, Reason: model.ReasonEligible}
}

// contribution is the era's share of the cumulative total. At the chunk's
// own start era the raw total is capped at PrevUnbonded + Amount, so that
// requests queued behind this one in the same era cannot block it.
func contribution(c *model.UnlockChunk, w Window, era int) float64 {
	total := w.TotalUnbondIn(era)
	if era == c.StartEra {
		if seen := c.PrevUnbonded + c.Amount; seen < total {
			return seen
		}
	}
	return total
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
