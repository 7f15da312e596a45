package service

import (
	"strings"

	"affiliatex/config"
	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
)

// PaymentService records payout-eligible payments. The fee breakdown is
// stamped exactly once here; nothing downstream recomputes it.
type PaymentService struct {
	payments *repository.PaymentRepository
	settings *repository.SettingRepository
	cfg      *config.Config
}

func NewPaymentService(payments *repository.PaymentRepository, settings *repository.SettingRepository, cfg *config.Config) *PaymentService {
	return &PaymentService{payments: payments, settings: settings, cfg: cfg}
}

type RecordPaymentInput struct {
	OfferID     uint   `json:"offer_id" binding:"required"`
	CompanyID   uint   `json:"company_id" binding:"required"`
	CreatorID   uint   `json:"creator_id" binding:"required"`
	GrossCents  int64  `json:"gross_cents" binding:"required,min=1"`
	Description string `json:"description"`
}

// Record creates a pending payment with its fee stamp. The platform rate uses
// the per-company settings override when present, else the configured default.
func (s *PaymentService) Record(in RecordPaymentInput) (*models.Payment, error) {
	if in.GrossCents <= 0 {
		return nil, domain.ErrValidation
	}
	platformRate := s.settings.GetDecimal(domain.CompanyFeeRateKey(in.CompanyID), s.cfg.Fees.PlatformRate)
	fees := CalculateFees(in.GrossCents, platformRate, s.cfg.Fees.ProcessingRate)
	p := &models.Payment{
		OfferID:            in.OfferID,
		CompanyID:          in.CompanyID,
		CreatorID:          in.CreatorID,
		GrossCents:         fees.GrossCents,
		PlatformFeeCents:   fees.PlatformFeeCents,
		ProcessingFeeCents: fees.ProcessingFeeCents,
		NetCents:           fees.NetCents,
		Status:             domain.PaymentPending,
		Description:        strings.TrimSpace(in.Description),
		NeedsReview:        fees.NeedsReview,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}
