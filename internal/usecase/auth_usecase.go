package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/auth"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/validator"
	"github.com/ev-station-service/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer выпускает токены доступа
type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

// AuthUseCase - регистрация, вход и профиль пользователя
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hasher   auth.Hasher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	hasher auth.Hasher,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register создаёт пользователя с ролью user и выдаёт токен
func (uc *AuthUseCase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if err := uc.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	now := uc.now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	uc.logger.Info("User registered", zap.String("user_id", user.ID))
	return uc.issue(user)
}

// Login проверяет пароль и выдаёт токен
func (uc *AuthUseCase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := uc.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		uc.logger.Debug("Password mismatch", zap.String("user_id", user.ID))
		return nil, errors.ErrInvalidCredentials
	}

	return uc.issue(user)
}

// Me возвращает текущего пользователя
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateProfile меняет имя и/или email
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := uc.ensureEmailFree(ctx, *req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	user.UpdatedAt = uc.now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePassword проверяет текущий пароль и сохраняет новый
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if err := validator.Validate(req); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := uc.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return errors.ErrInvalidCredentials.WithMessage("Current password is incorrect")
	}

	hash, err := uc.hasher.Hash(req.NewPassword)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return errors.ErrInternalServer
	}
	user.PasswordHash = hash
	user.UpdatedAt = uc.now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	uc.logger.Info("Password changed", zap.String("user_id", user.ID))
	return nil
}

func (uc *AuthUseCase) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return errors.ErrEmailInUse
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}

func (uc *AuthUseCase) issue(user *domain.User) (*dto.AuthResponse, error) {
	token, err := uc.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	return &dto.AuthResponse{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
