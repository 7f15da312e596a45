package models

import (
	"time"

	"gorm.io/gorm"
)

// FundingAccount is a platform-owned account used to fund outbound creator
// payouts. At most one active account is primary.
type FundingAccount struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Type      string         `gorm:"size:20;not null" json:"type"`         // BANK, WALLET, CARD
	Last4     string         `gorm:"size:4" json:"last4"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE, PENDING, DISABLED
	IsPrimary bool           `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FundingAccount) TableName() string {
	return "funding_accounts"
}
