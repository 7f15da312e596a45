package domain

import "errors"

var (
	ErrValidation          = errors.New("invalid input")
	ErrUnauthorized        = errors.New("actor does not own this payment")
	ErrNotFound            = errors.New("record not found")
	ErrConcurrencyConflict = errors.New("payment status changed concurrently, re-read before retrying")
	ErrInvalidTransition   = errors.New("illegal payment status transition")

	ErrAlreadyCompleted    = errors.New("payment already completed")
	ErrInsufficientFunds   = errors.New("insufficient funds on funding account")
	ErrBelowMinimumAmount  = errors.New("amount below payout method minimum")
	ErrSettlementFailed    = errors.New("settlement failed")
	ErrMethodSetupRequired = errors.New("payout method setup not completed")
	ErrNoPayoutMethod      = errors.New("no default payout method configured")
	ErrDisputedNoRetry     = errors.New("disputed payments cannot be retried")
)
