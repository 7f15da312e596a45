package service_test

import (
	"testing"
	"time"

	"affiliatex/config"
	"affiliatex/internal/database"
	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
	"affiliatex/internal/service"
	"affiliatex/pkg/rail"

	"github.com/shopspring/decimal"
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
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Fees: config.FeeConfig{
			PlatformRate:   decimal.RequireFromString("0.04"),
			ProcessingRate: decimal.RequireFromString("0.03"),
		},
		Settlement: config.SettlementConfig{
			MethodMinimumCents: map[string]int64{domain.MethodETransfer: 100},
			RailTimeout:        time.Second,
		},
	}
}

type fixture struct {
	db       *gorm.DB
	payments *repository.PaymentRepository
	methods  *repository.PaymentMethodRepository
	settings *repository.SettingRepository
	funding  *repository.FundingAccountRepository
	stub     *rail.StubProvider

	settlement *service.SettlementService
	disputes   *service.DisputeService
	earnings   *service.EarningsService
	intake     *service.PaymentService
}

func newFixture(t *testing.T, railBalanceCents int64) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		payments: repository.NewPaymentRepository(db),
		methods:  repository.NewPaymentMethodRepository(db),
		settings: repository.NewSettingRepository(db),
		funding:  repository.NewFundingAccountRepository(db),
		stub:     rail.NewStubProvider(railBalanceCents),
	}
	cfg := testConfig()
	notifier := service.NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	f.settlement = service.NewSettlementService(f.payments, f.methods, f.settings, f.funding, f.stub, notifier, cfg)
	f.disputes = service.NewDisputeService(f.payments, notifier)
	f.earnings = service.NewEarningsService(f.payments)
	f.intake = service.NewPaymentService(f.payments, f.settings, cfg)

	require.NoError(t, f.funding.Create(&models.FundingAccount{
		Name:      "Operating",
		Type:      domain.FundingTypeBank,
		Status:    domain.FundingActive,
		IsPrimary: true,
	}))
	return f
}

// createPayment inserts a payment with a 4%+3% fee stamp in the given status.
func (f *fixture) createPayment(t *testing.T, status string, grossCents int64, companyID, creatorID uint) *models.Payment {
	t.Helper()
	platformFee := grossCents * 4 / 100
	processingFee := grossCents * 3 / 100
	p := &models.Payment{
		OfferID:            1,
		CompanyID:          companyID,
		CreatorID:          creatorID,
		GrossCents:         grossCents,
		PlatformFeeCents:   platformFee,
		ProcessingFeeCents: processingFee,
		NetCents:           grossCents - platformFee - processingFee,
		Status:             status,
	}
	require.NoError(t, f.payments.Create(p))
	return p
}

// addPayPalMethod registers a usable default payout method for the creator.
func (f *fixture) addPayPalMethod(t *testing.T, creatorID uint) *models.PaymentMethod {
	t.Helper()
	m := &models.PaymentMethod{
		UserID: creatorID,
		Type:   domain.MethodPayPal,
		Email:  "creator@example.com",
	}
	require.NoError(t, f.methods.Create(m))
	return m
}

func (f *fixture) reload(t *testing.T, id uint) *models.Payment {
	t.Helper()
	p, err := f.payments.GetByID(id)
	require.NoError(t, err)
	return p
}
