package model

import "fmt"

// NetworkParameters is the immutable configuration bundle for one
// simulation session. BondingDuration is both the window length and the
// legacy fixed unbonding period being improved upon.
type NetworkParameters struct {
	BondingDuration   int     // window length in eras
	MinUnbondingEras  int     // mandatory minimum wait
	MinSlashableShare float64 // fraction of lowest-third stake that must stay locked, in (0,1)
}

// UnlockableShare is the fraction of lowest-third stake that may unbond
// per era: everything not reserved as slashable.
func (p NetworkParameters) UnlockableShare() float64 {
	return 1 - p.MinSlashableShare
}

// Validate checks internal consistency of the parameter bundle.
func (p NetworkParameters) Validate() error {
	if p.BondingDuration <= 0 {
		return fmt.Errorf("bonding_duration must be positive, got %d", p.BondingDuration)
	}
	if p.MinUnbondingEras < 0 || p.MinUnbondingEras > p.BondingDuration {
		return fmt.Errorf("min_unbonding_eras must be in [0, bonding_duration], got %d", p.MinUnbondingEras)
	}
	if p.MinSlashableShare <= 0 || p.MinSlashableShare >= 1 {
		return fmt.Errorf("min_slashable_share must be in (0,1), got %g", p.MinSlashableShare)
	}
	return nil
}
