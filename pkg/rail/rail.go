package rail

import "context"

// Outcome classifies a disbursement attempt.
type Outcome string

const (
	OutcomeSuccess           Outcome = "SUCCESS"
	OutcomeInsufficientFunds Outcome = "INSUFFICIENT_FUNDS"
	OutcomeBelowMinimum      Outcome = "BELOW_MINIMUM"
	OutcomeOther             Outcome = "OTHER"
)

// Destination carries the type-specific payout details for the selected method.
type Destination struct {
	Email         string
	RoutingNumber string
	AccountNumber string
	WalletAddress string
	Network       string
}

type AttemptRequest struct {
	PaymentID   uint
	AmountCents int64
	Method      string
	Destination Destination
	// IdempotencyKey is derived from the payment ID so a retried call after a
	// transient failure cannot double-disburse.
	IdempotencyKey string
	Description    string
}

type AttemptResult struct {
	Outcome   Outcome
	Reference string
	Message   string
}

// Provider is the external payment rail. Attempt must be idempotent per
// IdempotencyKey.
type Provider interface {
	Attempt(ctx context.Context, req AttemptRequest) (*AttemptResult, error)
	Balance(ctx context.Context) (int64, error)
}
