package models

import (
	"time"

	"affiliatex/internal/domain"

	"gorm.io/gorm"
)

// PaymentMethod is an actor's payout destination. At most one method per user
// has IsDefault set.
type PaymentMethod struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Type   string `gorm:"size:20;not null" json:"type"` // E_TRANSFER, ACH, PAYPAL, CRYPTO

	Email         string `gorm:"size:255" json:"email"`          // E_TRANSFER, PAYPAL
	RoutingNumber string `gorm:"size:32" json:"routing_number"`  // ACH
	AccountNumber string `gorm:"size:32" json:"account_number"`  // ACH
	WalletAddress string `gorm:"size:128" json:"wallet_address"` // CRYPTO
	Network       string `gorm:"size:32" json:"network"`         // CRYPTO

	IsDefault         bool   `gorm:"not null;default:false;index" json:"is_default"`
	ExternalAccountID string `gorm:"size:128" json:"external_account_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// SetupRequired reports whether the method cannot yet be used for settlement.
// E-transfer methods need an external account linked by the onboarding flow.
func (m *PaymentMethod) SetupRequired() bool {
	return m.Type == domain.MethodETransfer && m.ExternalAccountID == ""
}
