package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network.BondingDuration != 28 {
		t.Errorf("expected bonding duration 28, got %d", cfg.Network.BondingDuration)
	}
	if cfg.Network.MinUnbondingEras != 2 {
		t.Errorf("expected min unbonding eras 2, got %d", cfg.Network.MinUnbondingEras)
	}
	if cfg.Network.MinSlashableShare != 0.5 {
		t.Errorf("expected min slashable share 0.5, got %g", cfg.Network.MinSlashableShare)
	}
	if cfg.Stake.TotalEstimate != 688_800_000 {
		t.Errorf("expected total stake 688800000, got %.0f", cfg.Stake.TotalEstimate)
	}
	// Default inputs reproduce the reference 229,600,000 lowest third.
	if got := cfg.Stake.TotalEstimate * cfg.Stake.LowestThirdRatio; got < 229_599_999 || got > 229_600_001 {
		t.Errorf("expected lowest third near 229600000, got %.0f", got)
	}
	if cfg.Stake.InitialEra != 27 {
		t.Errorf("expected initial era 27, got %d", cfg.Stake.InitialEra)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
network:
  bonding_duration: 14
  min_unbonding_eras: 3
stake:
  total_estimate: 1000000
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TOTAL_STAKE", "2000000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network.BondingDuration != 14 {
		t.Errorf("expected bonding duration 14 from file, got %d", cfg.Network.BondingDuration)
	}
	if cfg.Network.MinUnbondingEras != 3 {
		t.Errorf("expected min unbonding eras 3 from file, got %d", cfg.Network.MinUnbondingEras)
	}
	if cfg.Stake.TotalEstimate != 2_000_000 {
		t.Errorf("expected env override 2000000, got %.0f", cfg.Stake.TotalEstimate)
	}
	if cfg.Stake.InitialEra != 13 {
		t.Errorf("expected initial era bonding_duration-1, got %d", cfg.Stake.InitialEra)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero bonding duration", func(c *Config) { c.Network.BondingDuration = 0 }},
		{"min wait above duration", func(c *Config) { c.Network.MinUnbondingEras = 99 }},
		{"share at one", func(c *Config) { c.Network.MinSlashableShare = 1 }},
		{"negative total stake", func(c *Config) { c.Stake.TotalEstimate = -1 }},
		{"ratio above one", func(c *Config) { c.Stake.LowestThirdRatio = 1.2 }},
		{"zero era hours", func(c *Config) { c.Network.EraHours = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
