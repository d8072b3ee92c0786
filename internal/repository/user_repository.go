package repository

import (
	"errors"

	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "id = ?", id).Error
	return &user, err
}

// UpsertByProvider finds the user for an OAuth identity, creating it on
// first login and refreshing profile fields on subsequent ones.
func (r *UserRepository) UpsertByProvider(providerName, providerID string, attrs model.User) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, "provider_name = ? AND provider_id = ?", providerName, providerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = attrs
		user.ProviderName = providerName
		user.ProviderID = providerID
		if err := r.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	user.Name = attrs.Name
	user.Email = attrs.Email
	user.Avatar = attrs.Avatar
	if err := r.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
