package replay

import (
	"sort"

	"UnbondSim/internal/evaluator"
	"UnbondSim/internal/model"
)

// Result is one analyzed record. HasEstimate is false when the record had
// fewer than BondingDuration prior records.
type Result struct {
	Record
	EstimatedEras int
	HasEstimate   bool
}

// seriesWindow adapts a historical series to the evaluator's view. The
// per-era lowest third is derived from the recorded total stake and the
// configured ratio; absent eras report zero.
type seriesWindow struct {
	byEra  map[int]Record
	params model.NetworkParameters
	ratio  float64
}

func (w seriesWindow) ThresholdFor(era int) float64 {
	r, ok := w.byEra[era]
	if !ok {
		return 0
	}
	return w.params.UnlockableShare() * w.ratio * r.TotalStake
}

func (w seriesWindow) TotalUnbondIn(era int) float64 {
	r, ok := w.byEra[era]
	if !ok {
		return 0
	}
	return r.Unbonded
}

// Analyze runs the windowed-scan duration estimate over a historical
// series: for each record with at least BondingDuration prior records, it
// estimates the wait a request made in that era would have faced.
func Analyze(records []Record, params model.NetworkParameters, ratio float64) []Result {
	series := make([]Record, len(records))
	copy(series, records)
	sort.Slice(series, func(i, j int) bool { return series[i].Era < series[j].Era })

	w := seriesWindow{
		byEra:  make(map[int]Record, len(series)),
		params: params,
		ratio:  ratio,
	}
	for _, r := range series {
		w.byEra[r.Era] = r
	}

	results := make([]Result, len(series))
	for i, r := range series {
		results[i] = Result{Record: r}
		if i < params.BondingDuration {
			continue
		}
		c := &model.UnlockChunk{
			Amount:   r.Unbonded,
			StartEra: r.Era,
			Status:   model.StatusPending,
		}
		results[i].EstimatedEras = evaluator.EstimateEras(c, w, params, r.Era)
		results[i].HasEstimate = true
	}
	return results
}
