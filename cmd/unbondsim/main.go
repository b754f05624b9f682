package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"UnbondSim/internal/config"
	"UnbondSim/internal/model"
	"UnbondSim/internal/recorder"
	"UnbondSim/internal/replay"
	"UnbondSim/internal/report"
	"UnbondSim/internal/scheduler"
	"UnbondSim/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] UnbondSim starting...")

	replayPath := flag.String("replay", "", "run a one-shot replay over a historical CSV and exit")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	params := model.NetworkParameters{
		BondingDuration:   cfg.Network.BondingDuration,
		MinUnbondingEras:  cfg.Network.MinUnbondingEras,
		MinSlashableShare: cfg.Network.MinSlashableShare,
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// One-shot replay mode
	if *replayPath == "" && cfg.Replay.CSVPath != "" {
		*replayPath = cfg.Replay.CSVPath
	}
	if *replayPath != "" {
		if err := runReplay(*replayPath, params, cfg, rec); err != nil {
			log.Fatalf("[FATAL] replay: %v", err)
		}
		return
	}

	// Init session
	sess, err := session.New(params, cfg.Stake.TotalEstimate, cfg.Stake.LowestThirdRatio, cfg.Stake.InitialEra, rec)
	if err != nil {
		log.Fatalf("[FATAL] init session: %v", err)
	}
	log.Printf("[INFO] session ready: window [%d, %d], lowest third %.0f per era",
		cfg.Stake.InitialEra-cfg.Network.BondingDuration+1, cfg.Stake.InitialEra,
		cfg.Stake.LowestThirdRatio*cfg.Stake.TotalEstimate)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sess, rec, cfg.Network.EraHours)
	if err := sched.RegisterAll(cfg.Schedule.EraCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Interactive commands on stdin
	go readCommands(ctx, sched)

	// Optional: advance immediately on start
	if os.Getenv("ADVANCE_ON_START") == "true" {
		log.Println("[INFO] ADVANCE_ON_START enabled, advancing one era now")
		go sched.RunEraNow()
	}

	log.Println("[INFO] UnbondSim is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] UnbondSim stopped")
}

func runReplay(path string, params model.NetworkParameters, cfg *config.Config, rec recorder.Recorder) error {
	src := replay.NewCSVSource(path)
	log.Printf("[INFO] replay source: %s", src.Name())

	records, err := src.Load()
	if err != nil {
		return err
	}
	results := replay.Analyze(records, params, cfg.Stake.LowestThirdRatio)
	for _, r := range results {
		if err := rec.RecordReplay(&recorder.ReplayEvent{
			Era:           r.Era,
			TotalStake:    r.TotalStake,
			Unbonded:      r.Unbonded,
			EstimatedEras: r.EstimatedEras,
			HasEstimate:   r.HasEstimate,
		}); err != nil {
			log.Printf("[ERROR] record replay row: %v", err)
		}
	}
	fmt.Println(report.FormatReplay(results, cfg.Network.EraHours))
	return nil
}

func readCommands(ctx context.Context, sched *scheduler.Scheduler) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if reply := sched.HandleCommand(scanner.Text()); reply != "" {
			fmt.Println(reply)
		}
	}
}
