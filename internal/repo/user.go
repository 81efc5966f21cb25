package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/neuronotes/internal/domain"
	"github.com/Skotchmaster/neuronotes/internal/models"
)

func toUser(m models.User) *domain.User {
	return &domain.User{ID: m.ID, Username: m.Username, PasswordHash: m.PasswordHash}
}

func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return toUser(user), nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toUser(user), nil
}

// CreateUser inserts a user. A unique index violation is reported as
// ErrUserAlreadyExists, which covers registrations racing past the
// service-level existence check.
func (r *GormRepo) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	user := models.User{Username: username, PasswordHash: passwordHash}
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toUser(user), nil
}
