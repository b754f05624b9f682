package ledger

import (
	"errors"

	"UnbondSim/internal/model"
)

var (
	// ErrOutOfWindow is returned when a write targets an era the ledger no
	// longer (or does not yet) track.
	ErrOutOfWindow = errors.New("era is outside the tracked window")
	// ErrInvalidAdvance is returned for a non-positive era advance.
	ErrInvalidAdvance = errors.New("era advance must be positive")
)

// Ledger is the sliding window of per-era records. It always holds exactly
// BondingDuration contiguous eras, the newest being the current era.
type Ledger struct {
	params   model.NetworkParameters
	firstEra int
	records  []model.EraRecord // records[i] covers era firstEra+i
}

// New creates a ledger whose window ends at currentEra, with every era
// seeded to the given lowest-third stake and zero unbonding.
func New(params model.NetworkParameters, currentEra int, lowestThird float64) *Ledger {
	l := &Ledger{
		params:   params,
		firstEra: currentEra - params.BondingDuration + 1,
		records:  make([]model.EraRecord, params.BondingDuration),
	}
	for i := range l.records {
		l.records[i] = model.EraRecord{
			Era:              l.firstEra + i,
			LowestThirdStake: lowestThird,
		}
	}
	return l
}

// CurrentEra is the newest era in the window.
func (l *Ledger) CurrentEra() int {
	return l.firstEra + len(l.records) - 1
}

// Contains reports whether the era is currently tracked.
func (l *Ledger) Contains(era int) bool {
	return era >= l.firstEra && era <= l.CurrentEra()
}

func (l *Ledger) index(era int) int {
	return era - l.firstEra
}

// ThresholdFor returns the unlock capacity of an era, or 0 when the era is
// not tracked. Absent eras are treated as "nothing happened".
func (l *Ledger) ThresholdFor(era int) float64 {
	if !l.Contains(era) {
		return 0
	}
	return l.records[l.index(era)].Threshold(l.params)
}

// TotalUnbondIn returns the accumulated unbond principal that started in
// the era, or 0 when the era is not tracked.
func (l *Ledger) TotalUnbondIn(era int) float64 {
	if !l.Contains(era) {
		return 0
	}
	return l.records[l.index(era)].TotalUnbond
}

// RecordUnbond adds delta (possibly negative) to the era's unbond total,
// flooring the result at zero. Writes outside the window fail with
// ErrOutOfWindow; callers are expected to check Contains first.
func (l *Ledger) RecordUnbond(era int, delta float64) error {
	if !l.Contains(era) {
		return ErrOutOfWindow
	}
	rec := &l.records[l.index(era)]
	rec.TotalUnbond += delta
	if rec.TotalUnbond < 0 {
		rec.TotalUnbond = 0
	}
	return nil
}

// SetLowestThird overwrites the exogenous lowest-third stake for every era
// in the window, re-deriving thresholds uniformly.
func (l *Ledger) SetLowestThird(value float64) {
	for i := range l.records {
		l.records[i].LowestThirdStake = value
	}
}

// SetParams swaps the parameter bundle used for threshold derivation.
// Window membership is untouched; a shorter or longer bonding duration
// takes effect on the next Advance.
func (l *Ledger) SetParams(params model.NetworkParameters) {
	l.params = params
}

// Advance shifts the window forward by n eras. Surviving eras carry their
// records unchanged; new eras are seeded with zero unbonding and the
// supplied default lowest-third stake. Evicted eras are dropped.
func (l *Ledger) Advance(n int, defaultLowestThird float64) error {
	if n <= 0 {
		return ErrInvalidAdvance
	}
	duration := l.params.BondingDuration
	newFirst := l.CurrentEra() + n - duration + 1
	next := make([]model.EraRecord, duration)
	for i := range next {
		era := newFirst + i
		if l.Contains(era) {
			next[i] = l.records[l.index(era)]
		} else {
			next[i] = model.EraRecord{Era: era, LowestThirdStake: defaultLowestThird}
		}
	}
	l.firstEra = newFirst
	l.records = next
	return nil
}

// Window returns a copy of the tracked records, oldest first.
func (l *Ledger) Window() []model.EraRecord {
	out := make([]model.EraRecord, len(l.records))
	copy(out, l.records)
	return out
}
