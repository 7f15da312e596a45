package repository

import (
	"errors"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"

	"gorm.io/gorm"
)

type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) ListByUser(userID uint) ([]models.PaymentMethod, error) {
	var list []models.PaymentMethod
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *PaymentMethodRepository) GetByID(id uint) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := r.db.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DefaultForUser returns the user's default payout method.
func (r *PaymentMethodRepository) DefaultForUser(userID uint) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoPayoutMethod
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a method; when it is the user's first method, or flagged
// default, any previous default is demoted in the same transaction.
func (r *PaymentMethodRepository) Create(m *models.PaymentMethod) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PaymentMethod{}).Where("user_id = ?", m.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			m.IsDefault = true
		}
		if m.IsDefault {
			if err := tx.Model(&models.PaymentMethod{}).
				Where("user_id = ? AND is_default = ?", m.UserID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	})
}

func (r *PaymentMethodRepository) Update(m *models.PaymentMethod) error {
	return r.db.Save(m).Error
}

// SetDefault promotes one method and demotes the previous default in a single
// transaction, so two simultaneous defaults can never be observed.
func (r *PaymentMethodRepository) SetDefault(userID, methodID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var m models.PaymentMethod
		if err := tx.Where("id = ? AND user_id = ?", methodID, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.PaymentMethod{}).
			Where("id = ?", methodID).
			Update("is_default", true).Error
	})
}

// Delete removes a method. Deleting the default atomically promotes the oldest
// remaining method, if any.
func (r *PaymentMethodRepository) Delete(userID, methodID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var m models.PaymentMethod
		if err := tx.Where("id = ? AND user_id = ?", methodID, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		if !m.IsDefault {
			return nil
		}
		var next models.PaymentMethod
		err := tx.Where("user_id = ?", userID).Order("id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.PaymentMethod{}).
			Where("id = ?", next.ID).
			Update("is_default", true).Error
	})
}
