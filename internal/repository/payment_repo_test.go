package repository_test

import (
	"testing"

	"affiliatex/internal/database"
	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedPayment(t *testing.T, repo *repository.PaymentRepository, status string, companyID, creatorID uint) *models.Payment {
	t.Helper()
	p := &models.Payment{
		OfferID:    1,
		CompanyID:  companyID,
		CreatorID:  creatorID,
		GrossCents: 10000,
		NetCents:   9300,
		Status:     status,
	}
	require.NoError(t, repo.Create(p))
	return p
}

func TestGetByIDNotFound(t *testing.T) {
	repo := repository.NewPaymentRepository(newTestDB(t))
	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatusIf(t *testing.T) {
	repo := repository.NewPaymentRepository(newTestDB(t))
	p := seedPayment(t, repo, domain.PaymentPending, 7, 3)

	t.Run("moves status and extra fields", func(t *testing.T) {
		err := repo.UpdateStatusIf(p.ID, domain.PaymentPending, domain.PaymentProcessing, nil)
		require.NoError(t, err)
		got, err := repo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentProcessing, got.Status)
	})

	t.Run("stale expectation conflicts", func(t *testing.T) {
		err := repo.UpdateStatusIf(p.ID, domain.PaymentPending, domain.PaymentProcessing, nil)
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	})

	t.Run("illegal transition rejected before the write", func(t *testing.T) {
		err := repo.UpdateStatusIf(p.ID, domain.PaymentProcessing, domain.PaymentPending, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		err := repo.UpdateStatusIf(999, domain.PaymentPending, domain.PaymentProcessing, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateStatusIfOnlyOneWriterWins(t *testing.T) {
	repo := repository.NewPaymentRepository(newTestDB(t))
	p := seedPayment(t, repo, domain.PaymentProcessing, 7, 3)

	// Two callers read PROCESSING; the second conditional write must lose.
	first := repo.UpdateStatusIf(p.ID, domain.PaymentProcessing, domain.PaymentCompleted, nil)
	second := repo.UpdateStatusIf(p.ID, domain.PaymentProcessing, domain.PaymentFailed, map[string]interface{}{
		"failure_kind": domain.FailureOther,
	})
	require.NoError(t, first)
	assert.ErrorIs(t, second, domain.ErrConcurrencyConflict)

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.Empty(t, got.FailureKind)
}

func TestListFilters(t *testing.T) {
	repo := repository.NewPaymentRepository(newTestDB(t))
	seedPayment(t, repo, domain.PaymentPending, 7, 3)
	seedPayment(t, repo, domain.PaymentProcessing, 7, 4)
	seedPayment(t, repo, domain.PaymentProcessing, 8, 3)

	byCreator, err := repo.List(repository.PaymentFilter{CreatorID: 3})
	require.NoError(t, err)
	assert.Len(t, byCreator, 2)

	byCompanyStatus, err := repo.List(repository.PaymentFilter{CompanyID: 7, Status: domain.PaymentProcessing})
	require.NoError(t, err)
	assert.Len(t, byCompanyStatus, 1)

	all, err := repo.List(repository.PaymentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListSearchMatchesDescription(t *testing.T) {
	repo := repository.NewPaymentRepository(newTestDB(t))
	p := seedPayment(t, repo, domain.PaymentPending, 7, 3)
	require.NoError(t, repo.Create(&models.Payment{
		OfferID: 2, CompanyID: 7, CreatorID: 3, GrossCents: 100, NetCents: 93,
		Status: domain.PaymentPending, Description: "spring campaign bonus",
	}))

	got, err := repo.List(repository.PaymentFilter{Search: "spring campaign"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, p.ID, got[0].ID)
}
