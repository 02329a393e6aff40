package repository

import (
	"errors"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *UserRepository) ListByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role = ?", role).Order("name").Find(&users).Error
	return users, err
}
