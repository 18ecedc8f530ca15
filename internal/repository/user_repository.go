package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskapi/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the user with the given email, or nil when no
// such user exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}
