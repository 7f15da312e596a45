package models

import (
	"time"

	"affiliatex/internal/domain"

	"gorm.io/gorm"
)

// Payment is a single creator payout record. Fee fields are stamped once at
// creation and never rewritten; settlement only mutates status, failure
// fields, the payout method snapshot and completed_at.
type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OfferID   uint `gorm:"not null;index" json:"offer_id"`
	CompanyID uint `gorm:"not null;index" json:"company_id"`
	CreatorID uint `gorm:"not null;index" json:"creator_id"`

	GrossCents         int64 `gorm:"not null" json:"gross_cents"`
	PlatformFeeCents   int64 `gorm:"not null" json:"platform_fee_cents"`
	ProcessingFeeCents int64 `gorm:"not null" json:"processing_fee_cents"`
	NetCents           int64 `gorm:"not null" json:"net_cents"`

	Status        string `gorm:"size:20;not null;index" json:"status"`       // PENDING, PROCESSING, COMPLETED, FAILED, REFUNDED
	FailureKind   string `gorm:"size:30;index" json:"failure_kind"`          // DISPUTE, INSUFFICIENT_FUNDS, BELOW_MINIMUM, OTHER
	FailureReason string `gorm:"type:text" json:"failure_reason"`
	PayoutMethod  string `gorm:"size:20" json:"payout_method"` // denormalized at settlement time
	Description   string `gorm:"type:text" json:"description"`
	RailRef       string `gorm:"size:128" json:"rail_ref"`
	NeedsReview   bool   `gorm:"default:false" json:"needs_review"` // fee clamp flagged for manual review

	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// Disputed reports whether this failure was a company dispute (held pending
// resolution) rather than an operational settlement failure.
func (p *Payment) Disputed() bool {
	return p.Status == domain.PaymentFailed && p.FailureKind == domain.FailureDispute
}
