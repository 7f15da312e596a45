package repository

import (
	"errors"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"

	"gorm.io/gorm"
)

type FundingAccountRepository struct {
	db *gorm.DB
}

func NewFundingAccountRepository(db *gorm.DB) *FundingAccountRepository {
	return &FundingAccountRepository{db: db}
}

func (r *FundingAccountRepository) List() ([]models.FundingAccount, error) {
	var list []models.FundingAccount
	err := r.db.Order("id ASC").Find(&list).Error
	return list, err
}

func (r *FundingAccountRepository) GetByID(id uint) (*models.FundingAccount, error) {
	var a models.FundingAccount
	err := r.db.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *FundingAccountRepository) Create(a *models.FundingAccount) error {
	return r.db.Create(a).Error
}

func (r *FundingAccountRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.FundingAccount{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetPrimary promotes one account and demotes all others in one transaction,
// keeping the at-most-one-primary invariant.
func (r *FundingAccountRepository) SetPrimary(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var a models.FundingAccount
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if a.Status != domain.FundingActive {
			return domain.ErrValidation
		}
		if err := tx.Model(&models.FundingAccount{}).
			Where("is_primary = ?", true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.FundingAccount{}).
			Where("id = ?", id).
			Update("is_primary", true).Error
	})
}
