package repository

import (
	"errors"
	"strconv"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository is the platform settings store: typed key/value access,
// mutated only through the admin configuration endpoints.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (string, error) {
	var s models.PlatformSetting
	if err := r.db.Where("`key` = ?", key).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return s.Value, nil
}

func (r *SettingRepository) Set(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.PlatformSetting{Key: key, Value: value}).Error
}

func (r *SettingRepository) GetAll() ([]models.PlatformSetting, error) {
	var list []models.PlatformSetting
	err := r.db.Order("`key` ASC").Find(&list).Error
	return list, err
}

// GetInt64 returns the setting parsed as int64, or def when absent/unparseable.
func (r *SettingRepository) GetInt64(key string, def int64) int64 {
	v, err := r.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns the setting parsed as bool, or def when absent/unparseable.
func (r *SettingRepository) GetBool(key string, def bool) bool {
	v, err := r.Get(key)
	if err != nil {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetDecimal returns the setting parsed as a decimal rate, or def when
// absent/unparseable.
func (r *SettingRepository) GetDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v, err := r.Get(key)
	if err != nil {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

// SeedDefaults inserts default settings if they don't already exist.
func (r *SettingRepository) SeedDefaults(defaults map[string]string) error {
	for k, v := range defaults {
		var count int64
		r.db.Model(&models.PlatformSetting{}).Where("`key` = ?", k).Count(&count)
		if count == 0 {
			if err := r.db.Create(&models.PlatformSetting{Key: k, Value: v}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
