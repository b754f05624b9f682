package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Network struct {
		BondingDuration   int     `yaml:"bonding_duration"`
		MinUnbondingEras  int     `yaml:"min_unbonding_eras"`
		MinSlashableShare float64 `yaml:"min_slashable_share"`
		EraHours          float64 `yaml:"era_hours"`
	} `yaml:"network"`
	Stake struct {
		TotalEstimate    float64 `yaml:"total_estimate"`
		LowestThirdRatio float64 `yaml:"lowest_third_ratio"`
		InitialEra       int     `yaml:"initial_era"`
	} `yaml:"stake"`
	Schedule struct {
		EraCron    string `yaml:"era_cron"`
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Replay struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"replay"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BONDING_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Network.BondingDuration = n
		}
	}
	if v := os.Getenv("MIN_UNBONDING_ERAS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Network.MinUnbondingEras = n
		}
	}
	if v := os.Getenv("MIN_SLASHABLE_SHARE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Network.MinSlashableShare = f
		}
	}
	if v := os.Getenv("TOTAL_STAKE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Stake.TotalEstimate = f
		}
	}
	if v := os.Getenv("ERA_CRON"); v != "" {
		cfg.Schedule.EraCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REPLAY_CSV"); v != "" {
		cfg.Replay.CSVPath = v
	}

	// Defaults (Polkadot-like reference parameters)
	if cfg.Network.BondingDuration == 0 {
		cfg.Network.BondingDuration = 28
	}
	if cfg.Network.MinUnbondingEras == 0 {
		cfg.Network.MinUnbondingEras = 2
	}
	if cfg.Network.MinSlashableShare == 0 {
		cfg.Network.MinSlashableShare = 0.5
	}
	if cfg.Network.EraHours == 0 {
		cfg.Network.EraHours = 24
	}
	if cfg.Stake.TotalEstimate == 0 {
		cfg.Stake.TotalEstimate = 688_800_000
	}
	if cfg.Stake.LowestThirdRatio == 0 {
		cfg.Stake.LowestThirdRatio = 1.0 / 3.0
	}
	if cfg.Stake.InitialEra == 0 {
		cfg.Stake.InitialEra = cfg.Network.BondingDuration - 1
	}
	if cfg.Schedule.EraCron == "" {
		cfg.Schedule.EraCron = "0 0 0 * * *"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 8 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/unbondsim.db"
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Network.BondingDuration <= 0 {
		return fmt.Errorf("network.bonding_duration must be positive")
	}
	if c.Network.MinUnbondingEras < 0 || c.Network.MinUnbondingEras > c.Network.BondingDuration {
		return fmt.Errorf("network.min_unbonding_eras must be in [0, bonding_duration]")
	}
	if c.Network.MinSlashableShare <= 0 || c.Network.MinSlashableShare >= 1 {
		return fmt.Errorf("network.min_slashable_share must be in (0,1)")
	}
	if c.Network.EraHours <= 0 {
		return fmt.Errorf("network.era_hours must be positive")
	}
	if c.Stake.TotalEstimate < 0 {
		return fmt.Errorf("stake.total_estimate must be non-negative")
	}
	if c.Stake.LowestThirdRatio <= 0 || c.Stake.LowestThirdRatio > 1 {
		return fmt.Errorf("stake.lowest_third_ratio must be in (0,1]")
	}
	return nil
}
