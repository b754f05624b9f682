package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"UnbondSim/internal/model"
	"UnbondSim/internal/recorder"
	"UnbondSim/internal/report"
	"UnbondSim/internal/session"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the simulation clock: a cron task advances the era and
// re-evaluates the queue, another logs periodic reports.
type Scheduler struct {
	Cron     *cron.Cron
	Session  *session.Session
	Recorder recorder.Recorder
	EraHours float64
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, s *session.Session, rec recorder.Recorder, eraHours float64) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Session:  s,
		Recorder: rec,
		EraHours: eraHours,
		Ctx:      ctx,
	}
}

// RegisterAll registers the era-advance and report tasks.
func (s *Scheduler) RegisterAll(eraCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(eraCron, s.eraTask); err != nil {
		return fmt.Errorf("register era task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunEraNow advances the era immediately (for manual trigger / ADVANCE_ON_START).
func (s *Scheduler) RunEraNow() {
	s.eraTask()
}

func (s *Scheduler) eraTask() {
	if err := s.Session.AdvanceEra(1); err != nil {
		log.Printf("[ERROR] advance era: %v", err)
		return
	}
	era := s.Session.CurrentEra()
	log.Printf("[INFO] advanced to era %d", era)
	s.sweep(era)
}

// sweep re-evaluates every pending chunk and records the outcomes.
func (s *Scheduler) sweep(era int) {
	for _, c := range s.Session.Chunks() {
		if c.Status != model.StatusPending {
			continue
		}
		d, err := s.Session.Evaluate(c.ID)
		if err != nil {
			log.Printf("[ERROR] evaluate %s: %v", c.ID, err)
			continue
		}
		if d.Eligible {
			log.Printf("[INFO] chunk %s is now withdrawable (%s)", c.ID, d.Reason)
		}
		if err := s.Recorder.RecordEvaluation(&recorder.EvaluationEvent{
			ChunkID:       c.ID,
			Era:           era,
			Eligible:      d.Eligible,
			Reason:        string(d.Reason),
			ViolationEra:  d.ViolationEra,
			ErasRemaining: d.ErasRemaining,
		}); err != nil {
			log.Printf("[ERROR] record evaluation: %v", err)
		}
	}
}

func (s *Scheduler) reportTask() {
	fmt.Println(report.FormatWindow(s.Session.EraWindow(), s.Session.Params()))
	fmt.Println(report.FormatQueue(s.Session.Chunks(), s.Session.CurrentEra(), s.EraHours))
}

// HandleCommand processes an interactive command and returns a reply.
func (s *Scheduler) HandleCommand(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "status", "queue":
		return report.FormatQueue(s.Session.Chunks(), s.Session.CurrentEra(), s.EraHours)
	case "window":
		return report.FormatWindow(s.Session.EraWindow(), s.Session.Params())
	case "add":
		amt, err := parseAmount(fields, 1)
		if err != nil {
			return err.Error()
		}
		id, err := s.Session.AddRequest(amt)
		if err != nil {
			return fmt.Sprintf("add request: %v", err)
		}
		est, _ := s.Session.Estimate(id)
		return fmt.Sprintf("created chunk %s, estimated wait %d eras", id, est)
	case "rebond":
		if len(fields) < 3 {
			return "usage: rebond <chunk-id> <amount>"
		}
		amt, err := parseAmount(fields, 2)
		if err != nil {
			return err.Error()
		}
		if err := s.Session.Rebond(fields[1], amt); err != nil {
			return fmt.Sprintf("rebond: %v", err)
		}
		return "rebonded"
	case "evaluate":
		if len(fields) < 2 {
			return "usage: evaluate <chunk-id>"
		}
		d, err := s.Session.Evaluate(fields[1])
		if err != nil {
			return fmt.Sprintf("evaluate: %v", err)
		}
		return report.FormatDecision(fields[1], d, s.EraHours)
	case "estimate":
		if len(fields) < 2 {
			return "usage: estimate <chunk-id>"
		}
		est, err := s.Session.Estimate(fields[1])
		if err != nil {
			return fmt.Sprintf("estimate: %v", err)
		}
		return fmt.Sprintf("estimated wait: %d eras (~%.1f days)", est, report.ErasToDays(est, s.EraHours))
	case "estimate-new":
		amt, err := parseAmount(fields, 1)
		if err != nil {
			return err.Error()
		}
		est, err := s.Session.EstimateNew(amt)
		if err != nil {
			return fmt.Sprintf("estimate-new: %v", err)
		}
		return fmt.Sprintf("a request of %.2f now would wait %d eras", amt, est)
	case "withdraw":
		if len(fields) < 2 {
			return "usage: withdraw <chunk-id>"
		}
		if err := s.Session.Withdraw(fields[1]); err != nil {
			return fmt.Sprintf("withdraw: %v", err)
		}
		return "withdrawn"
	case "advance":
		n := 1
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Sprintf("parse eras: %v", err)
			}
			n = v
		}
		if err := s.Session.AdvanceEra(n); err != nil {
			return fmt.Sprintf("advance: %v", err)
		}
		era := s.Session.CurrentEra()
		s.sweep(era)
		return fmt.Sprintf("advanced to era %d", era)
	default:
		return "commands:\n" +
			"  status | window\n" +
			"  add <amount>\n" +
			"  rebond <chunk-id> <amount>\n" +
			"  evaluate <chunk-id> | estimate <chunk-id> | estimate-new <amount>\n" +
			"  withdraw <chunk-id>\n" +
			"  advance [eras]"
	}
}

func parseAmount(fields []string, i int) (float64, error) {
	if len(fields) <= i {
		return 0, fmt.Errorf("missing amount")
	}
	v, err := strconv.ParseFloat(fields[i], 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}
	return v, nil
}
