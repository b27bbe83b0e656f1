package repository

import (
	"context"

	"github.com/ev-station-service/internal/domain"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя или errors.ErrUserNotFound
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail ищет по email без учёта регистра
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	Update(ctx context.Context, user *domain.User) error

	// GetRefs возвращает name/email для набора ID; отсутствующие ID пропускаются
	GetRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error)
}
