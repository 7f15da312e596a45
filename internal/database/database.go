package database

import (
	"log"
	"os"

	"affiliatex/config"
	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.PaymentMethod{},
		&models.FundingAccount{},
		&models.PlatformSetting{},
		&models.Notification{},
	)
}

// SeedAdmin creates the initial admin user if none exists. Credentials come
// from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] admin password hash: %v", err)
		return
	}
	u := &models.User{Email: email, Name: "Platform Admin", PasswordHash: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(u).Error; err != nil {
		log.Printf("[Seed] admin user: %v", err)
	}
}

// SeedSettings inserts default platform settings when absent.
func SeedSettings(db *gorm.DB) error {
	settings := repository.NewSettingRepository(db)
	return settings.SeedDefaults(map[string]string{
		domain.SettingSettlementSchedule:  "weekly",
		domain.SettingReservePercent:      "0.10",
		domain.SettingMinOperatingBalance: "100000",
		domain.SettingAutoDisburse:        "false",
		domain.SettingNotificationContact: "",
		domain.SettingEscalationContact:   "",
	})
}
