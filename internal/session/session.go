package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"UnbondSim/internal/evaluator"
	"UnbondSim/internal/ledger"
	"UnbondSim/internal/model"
	"UnbondSim/internal/recorder"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount is returned for non-positive request or rebond amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrNotFound is returned for operations on unknown or removed chunks.
	ErrNotFound = errors.New("no pending chunk with that id")
	// ErrNotWithdrawable is returned when Withdraw is called on a chunk that
	// is not yet eligible.
	ErrNotWithdrawable = errors.New("chunk is not withdrawable yet")
)

// Session owns one simulation's mutable state: the era ledger, the chunk
// store, and the active parameter bundle. All mutations go through its
// mutex, so request creation, rebonding, and era advancement never
// interleave against a half-updated ledger.
type Session struct {
	mu sync.Mutex

	params model.NetworkParameters
	ledger *ledger.Ledger
	chunks map[string]*model.UnlockChunk
	order  []string // chunk IDs in creation order, for stable listings

	totalStake float64
	ratio      float64

	rec recorder.Recorder
}

// New creates a session whose window ends at startEra, with every era
// seeded from the stake inputs (lowest third = ratio * totalStake).
func New(params model.NetworkParameters, totalStake, ratio float64, startEra int, rec recorder.Recorder) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("network parameters: %w", err)
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Session{
		params:     params,
		ledger:     ledger.New(params, startEra, ratio*totalStake),
		chunks:     make(map[string]*model.UnlockChunk),
		totalStake: totalStake,
		ratio:      ratio,
		rec:        rec,
	}, nil
}

// Configure replaces the parameter bundle. Existing decisions are not
// recomputed here; evaluation is always live, so the next Evaluate call
// sees the new parameters.
func (s *Session) Configure(params model.NetworkParameters) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("network parameters: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = params
	s.ledger.SetParams(params)
	return nil
}

// SetStakeInputs recomputes the lowest-third stake of every tracked era as
// ratio * totalStake.
func (s *Session) SetStakeInputs(totalStake, ratio float64) error {
	if totalStake < 0 {
		return fmt.Errorf("total stake must be non-negative, got %g", totalStake)
	}
	if ratio <= 0 || ratio > 1 {
		return fmt.Errorf("lowest-third ratio must be in (0,1], got %g", ratio)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalStake = totalStake
	s.ratio = ratio
	s.ledger.SetLowestThird(ratio * totalStake)
	return nil
}

// AddRequest creates a pending unbonding request at the current era and
// returns its ID. This is the only path that increases an era's unbond
// total.
func (s *Session) AddRequest(amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	era := s.ledger.CurrentEra()
	prev := s.ledger.TotalUnbondIn(era)
	if err := s.ledger.RecordUnbond(era, amount); err != nil {
		// The current era is always tracked, so this indicates a bug.
		return "", fmt.Errorf("record unbond for era %d: %w", era, err)
	}
	c := &model.UnlockChunk{
		ID:           uuid.NewString(),
		Amount:       amount,
		StartEra:     era,
		PrevUnbonded: prev,
		Status:       model.StatusPending,
	}
	s.chunks[c.ID] = c
	s.order = append(s.order, c.ID)

	if err := s.rec.RecordRequest(&recorder.RequestEvent{
		ChunkID:       c.ID,
		Amount:        amount,
		StartEra:      era,
		PrevUnbonded:  prev,
		EstimatedEras: evaluator.EstimateEras(c, s.ledger, s.params, era),
	}); err != nil {
		log.Printf("[ERROR] record request: %v", err)
	}
	return c.ID, nil
}

// Rebond cancels up to amount of a pending request, returning principal to
// staked status. The origin era's total is decremented only while that era
// is still tracked; rebonding an aged-out chunk shrinks the chunk without
// touching the ledger. A chunk driven to zero is removed entirely.
func (s *Session) Rebond(id string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chunks[id]
	if !ok || c.Status != model.StatusPending {
		return ErrNotFound
	}

	actual := amount
	if actual > c.Amount {
		actual = c.Amount
	}
	adjusted := false
	if s.ledger.Contains(c.StartEra) {
		if err := s.ledger.RecordUnbond(c.StartEra, -actual); err != nil {
			return fmt.Errorf("record rebond for era %d: %w", c.StartEra, err)
		}
		adjusted = true
	}
	c.Amount -= actual
	removed := c.Amount <= 0
	if removed {
		s.remove(id)
	}

	if err := s.rec.RecordRebond(&recorder.RebondEvent{
		ChunkID:        id,
		Requested:      amount,
		Actual:         actual,
		Remaining:      c.Amount,
		Removed:        removed,
		LedgerAdjusted: adjusted,
	}); err != nil {
		log.Printf("[ERROR] record rebond: %v", err)
	}
	return nil
}

// AdvanceEra shifts the window forward by n eras, seeding the new eras
// from the current stake inputs.
func (s *Session) AdvanceEra(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Advance(n, s.ratio*s.totalStake); err != nil {
		return err
	}
	if err := s.rec.RecordAdvance(&recorder.AdvanceEvent{
		By:         n,
		CurrentEra: s.ledger.CurrentEra(),
	}); err != nil {
		log.Printf("[ERROR] record advance: %v", err)
	}
	return nil
}

// Evaluate returns the live withdrawal decision for a chunk. Withdrawn
// chunks are reported as such rather than re-checked.
func (s *Session) Evaluate(id string) (model.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chunks[id]
	if !ok {
		return model.Decision{}, ErrNotFound
	}
	if c.Status == model.StatusWithdrawn {
		return model.Decision{Reason: model.ReasonWithdrawn}, nil
	}
	return evaluator.CanWithdraw(c, s.ledger, s.params, s.ledger.CurrentEra()), nil
}

// Estimate returns the predicted eras until the chunk becomes withdrawable.
func (s *Session) Estimate(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chunks[id]
	if !ok || c.Status != model.StatusPending {
		return 0, ErrNotFound
	}
	return evaluator.EstimateEras(c, s.ledger, s.params, s.ledger.CurrentEra()), nil
}

// EstimateNew returns the predicted wait for a prospective request of the
// given amount made now, without creating it.
func (s *Session) EstimateNew(amount float64) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return evaluator.EstimateNew(amount, s.ledger, s.params, s.ledger.CurrentEra()), nil
}

// Withdraw transitions an eligible pending chunk to Withdrawn. The chunk
// stays in the store for display but can no longer be rebonded.
func (s *Session) Withdraw(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chunks[id]
	if !ok || c.Status != model.StatusPending {
		return ErrNotFound
	}
	d := evaluator.CanWithdraw(c, s.ledger, s.params, s.ledger.CurrentEra())
	if !d.Eligible {
		return fmt.Errorf("%w: %s", ErrNotWithdrawable, d.Reason)
	}
	c.Status = model.StatusWithdrawn
	return nil
}

// CurrentEra is the newest era in the window.
func (s *Session) CurrentEra() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CurrentEra()
}

// Params returns the active parameter bundle.
func (s *Session) Params() model.NetworkParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// EraWindow returns a copy of the tracked era records, oldest first.
func (s *Session) EraWindow() []model.EraRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Window()
}

// Chunks returns copies of all stored chunks in creation order, withdrawn
// ones included.
func (s *Session) Chunks() []model.UnlockChunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.UnlockChunk, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.chunks[id]; ok {
			out = append(out, *c)
		}
	}
	return out
}

func (s *Session) remove(id string) {
	delete(s.chunks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
