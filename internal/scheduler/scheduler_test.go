package scheduler

import (
	"context"
	"strings"
	"testing"

	"UnbondSim/internal/model"
	"UnbondSim/internal/recorder"
	"UnbondSim/internal/session"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	params := model.NetworkParameters{
		BondingDuration:   28,
		MinUnbondingEras:  2,
		MinSlashableShare: 0.5,
	}
	s, err := session.New(params, 688_800_000, 1.0/3.0, 27, recorder.NewNoopRecorder())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewScheduler(context.Background(), s, recorder.NewNoopRecorder(), 24)
}

func TestHandleCommand_RequestLifecycle(t *testing.T) {
	sched := newTestScheduler(t)

	reply := sched.HandleCommand("add 10000")
	if !strings.Contains(reply, "created chunk") {
		t.Fatalf("unexpected add reply: %q", reply)
	}
	chunks := sched.Session.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	id := chunks[0].ID

	reply = sched.HandleCommand("evaluate " + id)
	if !strings.Contains(reply, "not withdrawable") {
		t.Errorf("expected min-wait refusal, got %q", reply)
	}

	reply = sched.HandleCommand("advance 2")
	if !strings.Contains(reply, "advanced to era 29") {
		t.Errorf("unexpected advance reply: %q", reply)
	}

	reply = sched.HandleCommand("evaluate " + id)
	if !strings.Contains(reply, "withdrawable now") {
		t.Errorf("expected eligibility at era 29, got %q", reply)
	}

	reply = sched.HandleCommand("withdraw " + id)
	if reply != "withdrawn" {
		t.Errorf("unexpected withdraw reply: %q", reply)
	}
}

func TestHandleCommand_Errors(t *testing.T) {
	sched := newTestScheduler(t)

	if reply := sched.HandleCommand("add -5"); !strings.Contains(reply, "amount must be positive") {
		t.Errorf("expected invalid-amount reply, got %q", reply)
	}
	if reply := sched.HandleCommand("rebond nope 100"); !strings.Contains(reply, "no pending chunk") {
		t.Errorf("expected not-found reply, got %q", reply)
	}
	if reply := sched.HandleCommand("advance 0"); !strings.Contains(reply, "positive") {
		t.Errorf("expected invalid-advance reply, got %q", reply)
	}
	if reply := sched.HandleCommand("bogus"); !strings.Contains(reply, "commands:") {
		t.Errorf("expected help text, got %q", reply)
	}
}
