package service_test

import (
	"testing"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarningsBuckets(t *testing.T) {
	f := newFixture(t, 1_000_000)

	f.createPayment(t, domain.PaymentPending, 1000, 7, 3)
	f.createPayment(t, domain.PaymentProcessing, 2000, 7, 3)
	f.createPayment(t, domain.PaymentCompleted, 4000, 7, 3)
	f.createPayment(t, domain.PaymentRefunded, 8000, 7, 3)

	disputed := f.createPayment(t, domain.PaymentProcessing, 16000, 7, 3)
	require.NoError(t, f.disputes.Dispute(disputed.ID, 7, "contested"))

	// Operational failure, not a dispute.
	failed := f.createPayment(t, domain.PaymentProcessing, 32000, 7, 3)
	require.NoError(t, f.db.Model(&models.Payment{}).Where("id = ?", failed.ID).
		Updates(map[string]interface{}{"status": domain.PaymentFailed, "failure_kind": domain.FailureOther}).Error)

	sum, err := f.earnings.ForCreator(3)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), sum.PendingCents)
	assert.Equal(t, int64(2000), sum.ProcessingCents)
	assert.Equal(t, int64(4000), sum.CompletedCents)
	assert.Equal(t, int64(16000), sum.DisputedCents)
	// Refunded and non-disputed failed are in no bucket; total excludes disputed.
	assert.Equal(t, int64(7000), sum.TotalCents)
}

func TestEarningsScopedByActor(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.createPayment(t, domain.PaymentCompleted, 1000, 7, 3)
	f.createPayment(t, domain.PaymentCompleted, 2000, 8, 3)
	f.createPayment(t, domain.PaymentCompleted, 4000, 7, 4)

	creator, err := f.earnings.ForCreator(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), creator.TotalCents)

	company, err := f.earnings.ForCompany(7)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), company.TotalCents)
}

func TestPlatformEarningsIncludeFees(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.createPayment(t, domain.PaymentCompleted, 10000, 7, 3)
	f.createPayment(t, domain.PaymentCompleted, 20000, 8, 4)
	f.createPayment(t, domain.PaymentProcessing, 5000, 7, 3)

	sum, err := f.earnings.ForPlatform()
	require.NoError(t, err)
	assert.Equal(t, int64(35000), sum.TotalCents)
	// Fees roll up from completed payments only.
	assert.Equal(t, int64(400+800), sum.PlatformFeeCents)
	assert.Equal(t, int64(300+600), sum.ProcessingFeeCents)
}
