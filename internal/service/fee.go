package service

import "github.com/shopspring/decimal"

// FeeBreakdown is the immutable fee stamp computed once when a payment is
// recorded. Settlement never recomputes it.
type FeeBreakdown struct {
	GrossCents         int64
	PlatformFeeCents   int64
	ProcessingFeeCents int64
	NetCents           int64
	// NeedsReview is set when the combined fees exceeded the gross amount and
	// the net was clamped to zero instead of silently losing the discrepancy.
	NeedsReview bool
}

// CalculateFees derives platform and processing fees from a gross amount.
// Each fee rounds half-up to a whole cent; net = max(0, gross - fees).
func CalculateFees(grossCents int64, platformRate, processingRate decimal.Decimal) FeeBreakdown {
	gross := decimal.NewFromInt(grossCents)
	platformFee := gross.Mul(platformRate).Round(0).IntPart()
	processingFee := gross.Mul(processingRate).Round(0).IntPart()
	net := grossCents - platformFee - processingFee
	b := FeeBreakdown{
		GrossCents:         grossCents,
		PlatformFeeCents:   platformFee,
		ProcessingFeeCents: processingFee,
		NetCents:           net,
	}
	if net < 0 {
		b.NetCents = 0
		b.NeedsReview = true
	}
	return b
}
