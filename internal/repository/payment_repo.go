package repository

import (
	"errors"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// PaymentFilter scopes list queries. Zero values are ignored.
type PaymentFilter struct {
	CreatorID uint
	CompanyID uint
	Status    string
	Search    string // matches description
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) List(f PaymentFilter) ([]models.Payment, error) {
	q := r.db.Model(&models.Payment{})
	if f.CreatorID != 0 {
		q = q.Where("creator_id = ?", f.CreatorID)
	}
	if f.CompanyID != 0 {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		q = q.Where("description LIKE ?", "%"+f.Search+"%")
	}
	var list []models.Payment
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

// UpdateStatusIf conditionally moves a payment from expectedStatus to
// newStatus, applying extra field updates in the same write. The write only
// succeeds if the status still matches what the caller read; a concurrent
// change surfaces as ErrConcurrencyConflict and the caller must re-read
// before deciding whether to retry.
func (r *PaymentRepository) UpdateStatusIf(id uint, expectedStatus, newStatus string, fields map[string]interface{}) error {
	if !domain.CanTransition(expectedStatus, newStatus) {
		return domain.ErrInvalidTransition
	}
	updates := map[string]interface{}{"status": newStatus}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Payment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConcurrencyConflict
	}
	return nil
}
