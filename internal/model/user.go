package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string        `gorm:"type:varchar(255)" json:"name"`
	Email        string        `gorm:"type:varchar(255);index" json:"email"`
	Avatar       *string       `gorm:"type:varchar(2048)" json:"avatar"`
	ProviderName string        `gorm:"type:varchar(50);index:idx_users_provider" json:"provider_name"`
	ProviderID   string        `gorm:"type:varchar(255);index:idx_users_provider" json:"provider_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
