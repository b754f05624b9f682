package evaluator

import (
	"testing"

	"UnbondSim/internal/ledger"
	"UnbondSim/internal/model"
)

var testParams = model.NetworkParameters{
	BondingDuration:   28,
	MinUnbondingEras:  2,
	MinSlashableShare: 0.5,
}

// newChunk mimics what the request processor does: snapshot, then record.
func newChunk(l *ledger.Ledger, amount float64) *model.UnlockChunk {
	era := l.CurrentEra()
	c := &model.UnlockChunk{
		ID:           "test",
		Amount:       amount,
		StartEra:     era,
		PrevUnbonded: l.TotalUnbondIn(era),
		Status:       model.StatusPending,
	}
	l.RecordUnbond(era, amount)
	return c
}

func TestCanWithdraw_MinimumWaitScenario(t *testing.T) {
	// Reference scenario: single 10k chunk created at era 27, all eras at
	// lowest third 229,600,000 (threshold 114,800,000).
	l := ledger.New(testParams, 27, 229_600_000)
	c := newChunk(l, 10_000)

	d := CanWithdraw(c, l, testParams, 27)
	if d.Eligible {
		t.Fatal("expected not eligible at era 27")
	}
	if d.Reason != model.ReasonMinimumWait || d.ErasRemaining != 2 {
		t.Errorf("era 27: expected min-wait with 2 remaining, got %s / %d", d.Reason, d.ErasRemaining)
	}

	l.Advance(1, 229_600_000)
	d = CanWithdraw(c, l, testParams, 28)
	if d.Eligible || d.Reason != model.ReasonMinimumWait {
		t.Errorf("era 28: expected min-wait, got eligible=%v reason=%s", d.Eligible, d.Reason)
	}
	if d.ErasRemaining != 1 {
		t.Errorf("era 28: expected 1 era remaining, got %d", d.ErasRemaining)
	}

	l.Advance(1, 229_600_000)
	d = CanWithdraw(c, l, testParams, 29)
	if !d.Eligible {
		t.Errorf("era 29: expected eligible, got %s", d.Reason)
	}
	if d.Reason != model.ReasonEligible {
		t.Errorf("era 29: expected ReasonEligible, got %s", d.Reason)
	}
}

func TestCanWithdraw_StaleWindow(t *testing.T) {
	l := ledger.New(testParams, 27, 229_600_000)
	c := newChunk(l, 500_000_000) // far above any threshold

	// Age the request out of the window entirely.
	l.Advance(28, 229_600_000)
	d := CanWithdraw(c, l, testParams, l.CurrentEra())
	if !d.Eligible {
		t.Fatalf("stale chunk must be eligible regardless of amount, got %s", d.Reason)
	}
	if d.Reason != model.ReasonStaleWindow {
		t.Errorf("expected ReasonStaleWindow, got %s", d.Reason)
	}
}

func TestCanWithdraw_ThresholdBoundary(t *testing.T) {
	// Threshold is 100,000,000 (lowest third 200,000,000, share 0.5).
	tests := []struct {
		name     string
		amount   float64
		eligible bool
	}{
		{"exactly at threshold passes", 100_000_000, true},
		{"one unit over fails", 100_000_001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New(testParams, 27, 200_000_000)
			c := newChunk(l, tt.amount)
			l.Advance(2, 200_000_000)

			d := CanWithdraw(c, l, testParams, 29)
			if d.Eligible != tt.eligible {
				t.Fatalf("amount %.0f: expected eligible=%v, got %v (%s)", tt.amount, tt.eligible, d.Eligible, d.Reason)
			}
			if !tt.eligible {
				if d.Reason != model.ReasonThresholdExceeded {
					t.Errorf("expected ReasonThresholdExceeded, got %s", d.Reason)
				}
				if d.ViolationEra != 27 {
					t.Errorf("expected violation at era 27, got %d", d.ViolationEra)
				}
			}
		})
	}
}

func TestCanWithdraw_SameEraChunksEvaluateIndependently(t *testing.T) {
	// Two 60M chunks in one era against a 100M threshold: together they
	// breach it, individually they don't. The snapshot cap must let the
	// first through and hold the second back.
	l := ledger.New(testParams, 27, 200_000_000)
	a := newChunk(l, 60_000_000)
	b := newChunk(l, 60_000_000)

	if a.PrevUnbonded != 0 {
		t.Fatalf("chunk A snapshot: expected 0, got %.0f", a.PrevUnbonded)
	}
	if b.PrevUnbonded != 60_000_000 {
		t.Fatalf("chunk B snapshot: expected 60000000, got %.0f", b.PrevUnbonded)
	}

	l.Advance(2, 200_000_000)

	da := CanWithdraw(a, l, testParams, 29)
	if !da.Eligible {
		t.Errorf("chunk A: expected eligible (cap 60M <= 100M), got %s", da.Reason)
	}

	db := CanWithdraw(b, l, testParams, 29)
	if db.Eligible {
		t.Error("chunk B: expected not eligible (cap 120M > 100M)")
	}
	if db.Reason != model.ReasonThresholdExceeded || db.ViolationEra != 27 {
		t.Errorf("chunk B: expected threshold violation at era 27, got %s / era %d", db.Reason, db.ViolationEra)
	}
	// Two lookback eras (29, 28) passed before the violation.
	if db.ErasRemaining != 26 {
		t.Errorf("chunk B: expected 26 eras remaining, got %d", db.ErasRemaining)
	}
}

func TestCanWithdraw_CumulativeAcrossEras(t *testing.T) {
	// Unrelated unbonding in later eras accumulates against the chunk's
	// lookback windows.
	l := ledger.New(testParams, 27, 200_000_000)
	c := newChunk(l, 40_000_000)

	l.Advance(1, 200_000_000)
	l.RecordUnbond(28, 70_000_000) // someone else unbonds after us
	l.Advance(1, 200_000_000)

	// Window [27,29] sums to 110M > 100M; the violation surfaces at era 27.
	d := CanWithdraw(c, l, testParams, 29)
	if d.Eligible {
		t.Fatal("expected not eligible: cumulative 110M exceeds 100M threshold")
	}
	if d.ViolationEra != 27 {
		t.Errorf("expected violation at era 27, got %d", d.ViolationEra)
	}
}
