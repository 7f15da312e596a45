package domain

import "fmt"

const (
	RoleCreator = "CREATOR"
	RoleCompany = "COMPANY"
	RoleAdmin   = "ADMIN"
)

const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
	PaymentRefunded   = "REFUNDED"
)

// Failure classification for FAILED payments. Empty for non-failed records.
const (
	FailureDispute           = "DISPUTE"
	FailureInsufficientFunds = "INSUFFICIENT_FUNDS"
	FailureBelowMinimum      = "BELOW_MINIMUM"
	FailureOther             = "OTHER"
)

const (
	MethodETransfer = "E_TRANSFER"
	MethodACH       = "ACH"
	MethodPayPal    = "PAYPAL"
	MethodCrypto    = "CRYPTO"
)

const (
	FundingTypeBank   = "BANK"
	FundingTypeWallet = "WALLET"
	FundingTypeCard   = "CARD"
)

const (
	FundingActive   = "ACTIVE"
	FundingPending  = "PENDING"
	FundingDisabled = "DISABLED"
)

const (
	EventDisputed            = "DISPUTED"
	EventInsufficientFunds   = "INSUFFICIENT_FUNDS"
	EventBelowMinimum        = "BELOW_MINIMUM"
	EventSettlementFailed    = "SETTLEMENT_FAILED"
	EventSettlementCompleted = "SETTLEMENT_COMPLETED"
	EventPaymentRefunded     = "PAYMENT_REFUNDED"
)

// Platform setting keys.
const (
	SettingSettlementSchedule  = "settlement_schedule"
	SettingReservePercent      = "reserve_percent"
	SettingMinOperatingBalance = "min_operating_balance_cents"
	SettingAutoDisburse        = "auto_disburse"
	SettingNotificationContact = "notification_contact"
	SettingEscalationContact   = "escalation_contact"
)

// CompanyFeeRateKey is the settings key holding a per-company platform fee
// rate override (e.g. "0.05"). Absent key means the configured default applies.
func CompanyFeeRateKey(companyID uint) string {
	return fmt.Sprintf("fee_rate:%d", companyID)
}
