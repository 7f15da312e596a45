package rail

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubProvider is an in-memory provider for development and tests. Outcomes
// can be forced per payment. Successful disbursements are recorded per
// idempotency key, so a repeated key returns the original result without
// moving money twice; failed attempts do not consume the key and may be
// retried.
type StubProvider struct {
	mu           sync.Mutex
	BalanceCents int64
	ForceOutcome map[uint]Outcome // paymentID -> forced outcome
	completed    map[string]*AttemptResult
	attempts     int
}

func NewStubProvider(balanceCents int64) *StubProvider {
	return &StubProvider{
		BalanceCents: balanceCents,
		ForceOutcome: make(map[uint]Outcome),
		completed:    make(map[string]*AttemptResult),
	}
}

func (s *StubProvider) Balance(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.BalanceCents, nil
}

func (s *StubProvider) Attempt(ctx context.Context, req AttemptRequest) (*AttemptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if prev, ok := s.completed[req.IdempotencyKey]; ok {
		return prev, nil
	}
	res := &AttemptResult{Outcome: OutcomeSuccess}
	if forced, ok := s.ForceOutcome[req.PaymentID]; ok {
		res.Outcome = forced
	}
	switch res.Outcome {
	case OutcomeSuccess:
		if req.AmountCents > s.BalanceCents {
			res.Outcome = OutcomeInsufficientFunds
			res.Message = "stub balance exhausted"
		} else {
			s.BalanceCents -= req.AmountCents
			res.Reference = fmt.Sprintf("stub_%s_%d", req.IdempotencyKey, time.Now().UnixNano())
			s.completed[req.IdempotencyKey] = res
		}
	case OutcomeInsufficientFunds:
		res.Message = "insufficient funds"
	case OutcomeBelowMinimum:
		res.Message = "amount below rail minimum"
	default:
		res.Message = "stub failure"
	}
	return res, nil
}

// AttemptCount reports how many disbursement calls reached the rail.
func (s *StubProvider) AttemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}
