package models

import (
	"time"

	"affiliatex/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string         `gorm:"size:100" json:"name"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // CREATOR | COMPANY | ADMIN
	CompanyID    uint           `gorm:"index" json:"company_id"`            // set for COMPANY users
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool   { return u.Role == domain.RoleAdmin }
func (u *User) IsCompany() bool { return u.Role == domain.RoleCompany }
func (u *User) IsCreator() bool { return u.Role == domain.RoleCreator }
