package service

import (
	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
)

// EarningsSummary is the one-pass rollup over a payment scope. Amounts are
// gross cents. A disputed payment counts only toward Disputed; a non-disputed
// failed payment counts toward nothing until it is retried.
type EarningsSummary struct {
	TotalCents      int64 `json:"total_cents"`
	PendingCents    int64 `json:"pending_cents"`
	ProcessingCents int64 `json:"processing_cents"`
	CompletedCents  int64 `json:"completed_cents"`
	DisputedCents   int64 `json:"disputed_cents"`

	// Fee rollups, populated for the platform scope.
	PlatformFeeCents   int64 `json:"platform_fee_cents,omitempty"`
	ProcessingFeeCents int64 `json:"processing_fee_cents,omitempty"`
}

type EarningsService struct {
	payments *repository.PaymentRepository
}

func NewEarningsService(payments *repository.PaymentRepository) *EarningsService {
	return &EarningsService{payments: payments}
}

func (s *EarningsService) ForCreator(creatorID uint) (*EarningsSummary, error) {
	list, err := s.payments.List(repository.PaymentFilter{CreatorID: creatorID})
	if err != nil {
		return nil, err
	}
	return summarize(list, false), nil
}

func (s *EarningsService) ForCompany(companyID uint) (*EarningsSummary, error) {
	list, err := s.payments.List(repository.PaymentFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	return summarize(list, false), nil
}

func (s *EarningsService) ForPlatform() (*EarningsSummary, error) {
	list, err := s.payments.List(repository.PaymentFilter{})
	if err != nil {
		return nil, err
	}
	return summarize(list, true), nil
}

func summarize(list []models.Payment, withFees bool) *EarningsSummary {
	sum := &EarningsSummary{}
	for _, p := range list {
		switch {
		case p.Disputed():
			// Disputed money is not counted as earned until resolution.
			sum.DisputedCents += p.GrossCents
		case p.Status == domain.PaymentPending:
			sum.PendingCents += p.GrossCents
			sum.TotalCents += p.GrossCents
		case p.Status == domain.PaymentProcessing:
			sum.ProcessingCents += p.GrossCents
			sum.TotalCents += p.GrossCents
		case p.Status == domain.PaymentCompleted:
			sum.CompletedCents += p.GrossCents
			sum.TotalCents += p.GrossCents
			if withFees {
				sum.PlatformFeeCents += p.PlatformFeeCents
				sum.ProcessingFeeCents += p.ProcessingFeeCents
			}
		}
		// Non-disputed FAILED and REFUNDED contribute to no bucket.
	}
	return sum
}
