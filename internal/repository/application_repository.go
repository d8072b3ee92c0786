package repository

import (
	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

func (r *ApplicationRepository) Create(application *model.Application) error {
	return r.db.Create(application).Error
}

func (r *ApplicationRepository) Update(application *model.Application) error {
	return r.db.Save(application).Error
}

func (r *ApplicationRepository) FindByID(id uuid.UUID) (*model.Application, error) {
	var application model.Application
	err := r.db.First(&application, "id = ?", id).Error
	return &application, err
}

// ListByUser returns the user's applications, most recently active first.
func (r *ApplicationRepository) ListByUser(userID uuid.UUID) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.
		Where("user_id = ?", userID).
		Order("last_activity_at DESC").
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}
