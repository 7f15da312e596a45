package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"affiliatex/config"
	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
	"affiliatex/pkg/rail"

	"github.com/google/uuid"
)

// SettlementService owns every status transition except disputes: approval,
// single and bulk settlement against the payment rail, retry of operational
// failures, and admin refunds. Each transition is a conditional write keyed on
// the status read immediately before it, so at most one of two racing callers
// can complete a payment.
type SettlementService struct {
	payments *repository.PaymentRepository
	methods  *repository.PaymentMethodRepository
	settings *repository.SettingRepository
	funding  *repository.FundingAccountRepository
	provider rail.Provider
	notifier *NotificationService
	cfg      *config.Config
}

func NewSettlementService(
	payments *repository.PaymentRepository,
	methods *repository.PaymentMethodRepository,
	settings *repository.SettingRepository,
	funding *repository.FundingAccountRepository,
	provider rail.Provider,
	notifier *NotificationService,
	cfg *config.Config,
) *SettlementService {
	return &SettlementService{
		payments: payments,
		methods:  methods,
		settings: settings,
		funding:  funding,
		provider: provider,
		notifier: notifier,
		cfg:      cfg,
	}
}

// IdempotencyKey derives the rail idempotency key from the payment ID, so a
// retried call after a transient network failure cannot double-disburse.
func IdempotencyKey(paymentID uint) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("affiliatex/payments/%d", paymentID))).String()
}

// Approve moves a pending payment into processing. Company actors may only
// approve their own payments; admins may approve any.
func (s *SettlementService) Approve(paymentID uint, actorRole string, actorCompanyID uint) error {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && p.CompanyID != actorCompanyID {
		return domain.ErrUnauthorized
	}
	if p.Status != domain.PaymentPending {
		return domain.ErrInvalidTransition
	}
	return s.payments.UpdateStatusIf(p.ID, domain.PaymentPending, domain.PaymentProcessing, nil)
}

// Settle completes a single payment against the payment rail. A pending
// payment is first approved into processing through the same conditional
// write. Terminal payments never reach the rail.
func (s *SettlementService) Settle(ctx context.Context, paymentID uint) (*models.Payment, error) {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case domain.PaymentCompleted:
		return p, domain.ErrAlreadyCompleted
	case domain.PaymentRefunded:
		return p, domain.ErrInvalidTransition
	case domain.PaymentFailed:
		return p, fmt.Errorf("%w: failed payments need a retry first", domain.ErrInvalidTransition)
	}
	if p.Status == domain.PaymentPending {
		if err := s.payments.UpdateStatusIf(p.ID, domain.PaymentPending, domain.PaymentProcessing, nil); err != nil {
			return p, err
		}
		p.Status = domain.PaymentProcessing
	}

	method, err := s.methods.DefaultForUser(p.CreatorID)
	if err != nil {
		return p, s.fail(p, domain.FailureOther, "no default payout method", domain.ErrNoPayoutMethod)
	}
	if method.SetupRequired() {
		return p, s.fail(p, domain.FailureOther, "payout method setup required", domain.ErrMethodSetupRequired)
	}
	if min := s.cfg.Settlement.MethodMinimumCents[method.Type]; min > 0 && p.NetCents < min {
		s.notifier.NotifyBelowMinimum(p.CreatorID, p.ID, method.Type, min)
		return p, s.fail(p, domain.FailureBelowMinimum,
			fmt.Sprintf("net %d below %s minimum %d", p.NetCents, method.Type, min),
			domain.ErrBelowMinimumAmount)
	}
	if err := s.requireActiveFunding(); err != nil {
		return p, s.fail(p, domain.FailureOther, "no active primary funding account", err)
	}

	railCtx, cancel := context.WithTimeout(ctx, s.cfg.Settlement.RailTimeout)
	defer cancel()

	balance, err := s.provider.Balance(railCtx)
	if err != nil {
		return p, s.fail(p, domain.FailureOther, "rail balance check failed: "+err.Error(), domain.ErrSettlementFailed)
	}
	minOperating := s.settings.GetInt64(domain.SettingMinOperatingBalance, 0)
	if balance < p.NetCents+minOperating {
		s.notifier.NotifyInsufficientFunds(p.CompanyID, p.ID, p.NetCents)
		return p, s.fail(p, domain.FailureInsufficientFunds,
			"funding balance below required operating minimum", domain.ErrInsufficientFunds)
	}

	res, err := s.provider.Attempt(railCtx, rail.AttemptRequest{
		PaymentID:   p.ID,
		AmountCents: p.NetCents,
		Method:      method.Type,
		Destination: rail.Destination{
			Email:         method.Email,
			RoutingNumber: method.RoutingNumber,
			AccountNumber: method.AccountNumber,
			WalletAddress: method.WalletAddress,
			Network:       method.Network,
		},
		IdempotencyKey: IdempotencyKey(p.ID),
		Description:    p.Description,
	})
	if err != nil {
		// Timeouts land here; treated as OTHER, never as success, no auto retry.
		return p, s.fail(p, domain.FailureOther, "rail attempt failed: "+err.Error(), domain.ErrSettlementFailed)
	}

	switch res.Outcome {
	case rail.OutcomeSuccess:
		now := time.Now()
		err := s.payments.UpdateStatusIf(p.ID, domain.PaymentProcessing, domain.PaymentCompleted, map[string]interface{}{
			"completed_at":   now,
			"payout_method":  method.Type,
			"rail_ref":       res.Reference,
			"failure_kind":   "",
			"failure_reason": "",
		})
		if err != nil {
			// The racing caller won; the rail deduplicated on our key.
			return p, err
		}
		p.Status = domain.PaymentCompleted
		p.CompletedAt = &now
		p.PayoutMethod = method.Type
		p.RailRef = res.Reference
		s.notifier.NotifySettlementCompleted(p.CreatorID, p.ID, p.NetCents)
		return p, nil
	case rail.OutcomeInsufficientFunds:
		s.notifier.NotifyInsufficientFunds(p.CompanyID, p.ID, p.NetCents)
		return p, s.fail(p, domain.FailureInsufficientFunds, messageOr(res.Message, "rail reported insufficient funds"), domain.ErrInsufficientFunds)
	case rail.OutcomeBelowMinimum:
		s.notifier.NotifyBelowMinimum(p.CreatorID, p.ID, method.Type, 0)
		return p, s.fail(p, domain.FailureBelowMinimum, messageOr(res.Message, "rail rejected amount as below minimum"), domain.ErrBelowMinimumAmount)
	default:
		s.notifier.NotifySettlementFailed(p.CreatorID, p.ID, res.Message)
		return p, s.fail(p, domain.FailureOther, messageOr(res.Message, "rail rejected disbursement"), domain.ErrSettlementFailed)
	}
}

// SettleItemResult is the per-item outcome of a bulk settlement.
type SettleItemResult struct {
	PaymentID   uint   `json:"payment_id"`
	Status      string `json:"status"`
	FailureKind string `json:"failure_kind,omitempty"`
	Error       string `json:"error,omitempty"`
}

type SettleBatchResult struct {
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Items     []SettleItemResult `json:"items"`
}

// SettleAll settles every processing payment matching the filter, each item
// independently: one item's failure never aborts or rolls back its siblings.
func (s *SettlementService) SettleAll(ctx context.Context, f repository.PaymentFilter) (*SettleBatchResult, error) {
	f.Status = domain.PaymentProcessing
	list, err := s.payments.List(f)
	if err != nil {
		return nil, err
	}
	result := &SettleBatchResult{Total: len(list)}
	for _, item := range list {
		p, err := s.Settle(ctx, item.ID)
		out := SettleItemResult{PaymentID: item.ID}
		if p != nil {
			out.Status = p.Status
			out.FailureKind = p.FailureKind
		}
		if err != nil {
			out.Error = err.Error()
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Items = append(result.Items, out)
	}
	log.Printf("[Settlement] bulk settle total=%d ok=%d failed=%d", result.Total, result.Succeeded, result.Failed)
	return result, nil
}

// Retry moves a non-disputed failed payment back into processing so a
// subsequent settle call can be issued. Disputed failures have no retry path;
// resolution is a separate administrative action.
func (s *SettlementService) Retry(paymentID uint) error {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		return err
	}
	if p.Status != domain.PaymentFailed {
		return domain.ErrInvalidTransition
	}
	if p.Disputed() {
		return domain.ErrDisputedNoRetry
	}
	return s.payments.UpdateStatusIf(p.ID, domain.PaymentFailed, domain.PaymentProcessing, map[string]interface{}{
		"failure_kind":   "",
		"failure_reason": "",
	})
}

// Refund reverses a completed payment (admin only).
func (s *SettlementService) Refund(paymentID uint) error {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		return err
	}
	if p.Status != domain.PaymentCompleted {
		return domain.ErrInvalidTransition
	}
	if err := s.payments.UpdateStatusIf(p.ID, domain.PaymentCompleted, domain.PaymentRefunded, nil); err != nil {
		return err
	}
	s.notifier.NotifyRefunded(p.CreatorID, p.ID)
	return nil
}

// fail marks the payment FAILED with a classification, preserving the record
// for audit, and returns the classified error to the caller. Fee fields are
// never touched on any failure path.
func (s *SettlementService) fail(p *models.Payment, kind, reason string, cause error) error {
	err := s.payments.UpdateStatusIf(p.ID, p.Status, domain.PaymentFailed, map[string]interface{}{
		"failure_kind":   kind,
		"failure_reason": reason,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		log.Printf("[Settlement] failed to record failure payment=%d kind=%s: %v", p.ID, kind, err)
	}
	p.Status = domain.PaymentFailed
	p.FailureKind = kind
	p.FailureReason = reason
	return fmt.Errorf("%w: %s", cause, reason)
}

func (s *SettlementService) requireActiveFunding() error {
	accounts, err := s.funding.List()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.IsPrimary && a.Status == domain.FundingActive {
			return nil
		}
	}
	return domain.ErrSettlementFailed
}

func messageOr(msg, def string) string {
	if msg != "" {
		return msg
	}
	return def
}
