package report

import (
	"fmt"
	"strings"

	"UnbondSim/internal/model"
	"UnbondSim/internal/replay"

	"github.com/dustin/go-humanize"
)

func amount(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// ErasToDays converts an era count to days for display. Era length is
// configuration, not chain data, so this never feeds back into the core.
func ErasToDays(eras int, eraHours float64) float64 {
	return float64(eras) * eraHours / 24
}

// FormatWindow renders the tracked era window, oldest first.
func FormatWindow(records []model.EraRecord, p model.NetworkParameters) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Era window (%d eras)\n", len(records)))
	b.WriteString(fmt.Sprintf("unlockable share per era: %.0f%% of lowest third\n\n", p.UnlockableShare()*100))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("  era %4d | lowest third %s | threshold %s | unbonding %s\n",
			r.Era, amount(r.LowestThirdStake), amount(r.Threshold(p)), amount(r.TotalUnbond)))
	}
	return b.String()
}

// FormatQueue renders the chunk store in creation order.
func FormatQueue(chunks []model.UnlockChunk, currentEra int, eraHours float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Unbonding queue | current era %d\n\n", currentEra))
	if len(chunks) == 0 {
		b.WriteString("  (no requests)\n")
		return b.String()
	}
	for _, c := range chunks {
		age := currentEra - c.StartEra
		b.WriteString(fmt.Sprintf("  %s | %s | started era %d (%.1f days ago) | %s\n",
			c.ID, amount(c.Amount), c.StartEra, ErasToDays(age, eraHours), c.Status))
	}
	return b.String()
}

// FormatDecision renders one withdrawal decision.
func FormatDecision(chunkID string, d model.Decision, eraHours float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Chunk %s: ", chunkID))
	if d.Eligible {
		b.WriteString(fmt.Sprintf("withdrawable now (%s)\n", d.Reason))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("not withdrawable (%s)\n", d.Reason))
	if d.Reason == model.ReasonThresholdExceeded {
		b.WriteString(fmt.Sprintf("  unlock capacity exceeded at era %d\n", d.ViolationEra))
	}
	if d.ErasRemaining > 0 {
		b.WriteString(fmt.Sprintf("  estimated wait: %d eras (~%.1f days)\n",
			d.ErasRemaining, ErasToDays(d.ErasRemaining, eraHours)))
	}
	return b.String()
}

// FormatReplay renders a replay analysis summary.
func FormatReplay(results []replay.Result, eraHours float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Historical replay | %d records\n\n", len(results)))

	var estimated, waitSum int
	maxWait := 0
	for _, r := range results {
		if !r.HasEstimate {
			continue
		}
		estimated++
		waitSum += r.EstimatedEras
		if r.EstimatedEras > maxWait {
			maxWait = r.EstimatedEras
		}
	}
	b.WriteString(fmt.Sprintf("  records with estimate: %d (insufficient history: %d)\n",
		estimated, len(results)-estimated))
	if estimated > 0 {
		avg := float64(waitSum) / float64(estimated)
		b.WriteString(fmt.Sprintf("  average wait: %.2f eras (~%.1f days)\n", avg, avg*eraHours/24))
		b.WriteString(fmt.Sprintf("  worst wait:   %d eras (~%.1f days)\n", maxWait, ErasToDays(maxWait, eraHours)))
	}
	return b.String()
}
