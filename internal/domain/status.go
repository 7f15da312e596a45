package domain

// legalTransitions is the full settlement state graph. COMPLETED -> REFUNDED
// is admin-only; FAILED -> PROCESSING only applies to non-disputed failures
// (enforced by the settlement service, not the table).
var legalTransitions = map[string][]string{
	PaymentPending:    {PaymentProcessing, PaymentFailed},
	PaymentProcessing: {PaymentCompleted, PaymentFailed},
	PaymentFailed:     {PaymentProcessing},
	PaymentCompleted:  {PaymentRefunded},
}

func CanTransition(from, to string) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Settleable reports whether a settle call may act on the status.
func Settleable(status string) bool {
	return status == PaymentPending || status == PaymentProcessing
}
