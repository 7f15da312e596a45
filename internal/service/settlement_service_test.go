package service_test

import (
	"context"
	"testing"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
	"affiliatex/internal/service"
	"affiliatex/pkg/rail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeyIsStablePerPayment(t *testing.T) {
	assert.Equal(t, service.IdempotencyKey(42), service.IdempotencyKey(42))
	assert.NotEqual(t, service.IdempotencyKey(42), service.IdempotencyKey(43))
}

func TestApprove(t *testing.T) {
	f := newFixture(t, 1_000_000)
	p := f.createPayment(t, domain.PaymentPending, 10000, 7, 3)

	t.Run("wrong company rejected", func(t *testing.T) {
		err := f.settlement.Approve(p.ID, domain.RoleCompany, 99)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("owning company approves", func(t *testing.T) {
		require.NoError(t, f.settlement.Approve(p.ID, domain.RoleCompany, 7))
		assert.Equal(t, domain.PaymentProcessing, f.reload(t, p.ID).Status)
	})

	t.Run("second approve rejected", func(t *testing.T) {
		err := f.settlement.Approve(p.ID, domain.RoleCompany, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestSettleSuccess(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	got, err := f.settlement.Settle(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.NotEmpty(t, got.RailRef)

	stored := f.reload(t, p.ID)
	assert.Equal(t, domain.PaymentCompleted, stored.Status)
	assert.Equal(t, domain.MethodPayPal, stored.PayoutMethod)
	require.NotNil(t, stored.CompletedAt)
	// Fee stamp is untouched by settlement.
	assert.Equal(t, int64(10000), stored.GrossCents)
	assert.Equal(t, int64(9300), stored.NetCents)

	assert.Equal(t, 1, f.stub.AttemptCount())
	assert.Equal(t, int64(1_000_000-9300), f.stub.BalanceCents)
}

func TestSettlePendingIsApprovedFirst(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentPending, 5000, 7, 3)

	got, err := f.settlement.Settle(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
}

func TestSettleAlreadyCompletedNeverHitsRail(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, f.stub.AttemptCount())

	got, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.Equal(t, 1, f.stub.AttemptCount())
}

func TestSettleNoPayoutMethod(t *testing.T) {
	f := newFixture(t, 1_000_000)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrNoPayoutMethod)

	stored := f.reload(t, p.ID)
	assert.Equal(t, domain.PaymentFailed, stored.Status)
	assert.Equal(t, domain.FailureOther, stored.FailureKind)
	assert.Equal(t, 0, f.stub.AttemptCount())
}

func TestSettleETransferRequiresLinkedAccount(t *testing.T) {
	f := newFixture(t, 1_000_000)
	require.NoError(t, f.methods.Create(&models.PaymentMethod{
		UserID: 3,
		Type:   domain.MethodETransfer,
		Email:  "creator@example.com",
	}))
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrMethodSetupRequired)
	assert.Equal(t, domain.PaymentFailed, f.reload(t, p.ID).Status)
	assert.Equal(t, 0, f.stub.AttemptCount())
}

func TestSettleBelowETransferMinimum(t *testing.T) {
	f := newFixture(t, 1_000_000)
	require.NoError(t, f.methods.Create(&models.PaymentMethod{
		UserID:            3,
		Type:              domain.MethodETransfer,
		Email:             "creator@example.com",
		ExternalAccountID: "acct_123",
	}))
	// $0.50 gross nets well under the $1.00 e-transfer minimum.
	p := f.createPayment(t, domain.PaymentProcessing, 50, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrBelowMinimumAmount)

	stored := f.reload(t, p.ID)
	assert.Equal(t, domain.PaymentFailed, stored.Status)
	assert.Equal(t, domain.FailureBelowMinimum, stored.FailureKind)
	assert.Equal(t, 0, f.stub.AttemptCount())
}

func TestSettleInsufficientRailBalance(t *testing.T) {
	f := newFixture(t, 1000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stored := f.reload(t, p.ID)
	assert.Equal(t, domain.PaymentFailed, stored.Status)
	assert.Equal(t, domain.FailureInsufficientFunds, stored.FailureKind)
	assert.Equal(t, 0, f.stub.AttemptCount())
}

func TestSettleRespectsMinOperatingBalance(t *testing.T) {
	f := newFixture(t, 50_000)
	f.addPayPalMethod(t, 3)
	require.NoError(t, f.settings.Set(domain.SettingMinOperatingBalance, "45000"))
	// Net 9300 would leave the balance under the operating floor.
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestSettleWithoutActiveFunding(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	require.NoError(t, f.funding.UpdateStatus(1, domain.FundingDisabled))
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrSettlementFailed)
	assert.Equal(t, domain.PaymentFailed, f.reload(t, p.ID).Status)
}

func TestSettleRailRejection(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)
	f.stub.ForceOutcome[p.ID] = rail.OutcomeOther

	_, err := f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrSettlementFailed)

	stored := f.reload(t, p.ID)
	assert.Equal(t, domain.PaymentFailed, stored.Status)
	assert.Equal(t, domain.FailureOther, stored.FailureKind)
	assert.NotEmpty(t, stored.FailureReason)
}

func TestSettleAllIsolatesFailures(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p1 := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)
	p2 := f.createPayment(t, domain.PaymentProcessing, 20000, 7, 3)
	p3 := f.createPayment(t, domain.PaymentProcessing, 30000, 7, 3)
	f.stub.ForceOutcome[p2.ID] = rail.OutcomeOther

	res, err := f.settlement.SettleAll(context.Background(), repository.PaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)

	assert.Equal(t, domain.PaymentCompleted, f.reload(t, p1.ID).Status)
	assert.Equal(t, domain.PaymentFailed, f.reload(t, p2.ID).Status)
	assert.Equal(t, domain.PaymentCompleted, f.reload(t, p3.ID).Status)
}

func TestSettleAllSkipsNonProcessing(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	f.createPayment(t, domain.PaymentPending, 10000, 7, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 20000, 7, 3)

	res, err := f.settlement.SettleAll(context.Background(), repository.PaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, p.ID, res.Items[0].PaymentID)
}

func TestRetryClearsFailureAndSettles(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)
	f.stub.ForceOutcome[p.ID] = rail.OutcomeInsufficientFunds

	_, err := f.settlement.Settle(context.Background(), p.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.NoError(t, f.settlement.Retry(p.ID))
	stored := f.reload(t, p.ID)
	assert.Equal(t, domain.PaymentProcessing, stored.Status)
	assert.Empty(t, stored.FailureKind)
	assert.Empty(t, stored.FailureReason)

	// Failed attempts do not consume the idempotency key; once the rail
	// recovers the retry goes through.
	delete(f.stub.ForceOutcome, p.ID)
	got, err := f.settlement.Settle(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.Equal(t, 2, f.stub.AttemptCount())
}

func TestRetryDisputedRejected(t *testing.T) {
	f := newFixture(t, 1_000_000)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)
	require.NoError(t, f.disputes.Dispute(p.ID, 7, "deliverable not received"))

	err := f.settlement.Retry(p.ID)
	assert.ErrorIs(t, err, domain.ErrDisputedNoRetry)
}

func TestRetryRequiresFailedStatus(t *testing.T) {
	f := newFixture(t, 1_000_000)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)
	assert.ErrorIs(t, f.settlement.Retry(p.ID), domain.ErrInvalidTransition)
}

func TestRefund(t *testing.T) {
	f := newFixture(t, 1_000_000)
	f.addPayPalMethod(t, 3)
	p := f.createPayment(t, domain.PaymentProcessing, 10000, 7, 3)
	_, err := f.settlement.Settle(context.Background(), p.ID)
	require.NoError(t, err)

	require.NoError(t, f.settlement.Refund(p.ID))
	assert.Equal(t, domain.PaymentRefunded, f.reload(t, p.ID).Status)

	// Refunded payments are terminal for settlement.
	_, err = f.settlement.Settle(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRefundRequiresCompleted(t *testing.T) {
	f := newFixture(t, 1_000_000)
	p := f.createPayment(t, domain.PaymentPending, 10000, 7, 3)
	assert.ErrorIs(t, f.settlement.Refund(p.ID), domain.ErrInvalidTransition)
}
