package evaluator

import "UnbondSim/internal/model"

// EstimateEras predicts how many eras remain until the chunk becomes
// withdrawable. It runs the same backward scan as CanWithdraw but over the
// whole window: e counts the consecutive lookback eras that pass before the
// first violation (all of them when none fails), and the estimate is
// BondingDuration - e, floored by the minimum wait.
func EstimateEras(c *model.UnlockChunk, w Window, p model.NetworkParameters, currentEra int) int {
	passed := 0
	sum := 0.0
	for k := 1; k <= p.BondingDuration; k++ {
		era := currentEra - k + 1
		sum += contribution(c, w, era)
		if sum > w.ThresholdFor(era) {
			break
		}
		passed++
	}
	return maxInt(
		p.BondingDuration-passed,
		p.MinUnbondingEras,
		c.StartEra+p.MinUnbondingEras-currentEra,
	)
}

// EstimateNew predicts the wait for a prospective request of the given
// amount made at currentEra, without mutating anything: the scan sees the
// current era's total provisionally incremented by the candidate amount.
func EstimateNew(amount float64, w Window, p model.NetworkParameters, currentEra int) int {
	c := &model.UnlockChunk{
		Amount:       amount,
		StartEra:     currentEra,
		PrevUnbonded: w.TotalUnbondIn(currentEra),
		Status:       model.StatusPending,
	}
	return EstimateEras(c, provisional{w, currentEra, amount}, p, currentEra)
}

// provisional overlays a pending delta on one era of an existing window.
type provisional struct {
	Window
	era   int
	delta float64
}

func (o provisional) TotalUnbondIn(era int) float64 {
	total := o.Window.TotalUnbondIn(era)
	if era == o.era {
		total += o.delta
	}
	return total
}
