package service

import (
	"fmt"
	"strings"

	"affiliatex/internal/domain"
	"affiliatex/internal/repository"
)

// DisputeService handles the company-initiated hold workflow. A dispute marks
// the payment FAILED with an explicit dispute classification; it is excluded
// from earnings until resolved and has no retry path.
type DisputeService struct {
	payments *repository.PaymentRepository
	notifier *NotificationService
}

func NewDisputeService(payments *repository.PaymentRepository, notifier *NotificationService) *DisputeService {
	return &DisputeService{payments: payments, notifier: notifier}
}

func (s *DisputeService) Dispute(paymentID, actorCompanyID uint, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: dispute reason is required", domain.ErrValidation)
	}
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		return err
	}
	if p.CompanyID != actorCompanyID {
		return domain.ErrUnauthorized
	}
	if p.Status != domain.PaymentPending && p.Status != domain.PaymentProcessing {
		return domain.ErrInvalidTransition
	}
	err = s.payments.UpdateStatusIf(p.ID, p.Status, domain.PaymentFailed, map[string]interface{}{
		"failure_kind":   domain.FailureDispute,
		"failure_reason": reason,
	})
	if err != nil {
		return err
	}
	s.notifier.NotifyDisputed(p.CreatorID, p.ID, reason)
	return nil
}
