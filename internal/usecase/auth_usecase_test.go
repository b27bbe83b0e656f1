package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/pkg/auth"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/repository/memory"
	"github.com/ev-station-service/internal/usecase"
	"github.com/ev-station-service/internal/usecase/dto"
)

func newAuthUseCase(t *testing.T) (*usecase.AuthUseCase, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", time.Hour, "ev-station-service", "ev-station-clients")
	uc := usecase.NewAuthUseCase(memory.NewUserStore(), tokens, auth.NewBcryptHasher(bcrypt.MinCost), zap.NewNop())
	return uc, tokens
}

func register(t *testing.T, uc *usecase.AuthUseCase, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Jane Doe",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	uc, tokens := newAuthUseCase(t)

	resp := register(t, uc, "  Jane@Example.COM ")
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleUser, resp.User.Role)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	register(t, uc, "jane@example.com")

	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Jane Again",
		Email:    "JANE@example.com",
		Password: "secret2",
	})
	assert.ErrorIs(t, err, errors.ErrEmailInUse)
}

func TestRegister_Validation(t *testing.T) {
	uc, _ := newAuthUseCase(t)

	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "J4ne",
		Email:    "not-an-email",
		Password: "123",
	})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	require.Len(t, appErr.Fields, 3)
	assert.Equal(t, "Name can only contain letters and spaces", appErr.Fields[0].Message)
	assert.Equal(t, "Please provide a valid email", appErr.Fields[1].Message)
	assert.Equal(t, "Password must be at least 6 characters long", appErr.Fields[2].Message)
}

func TestLogin(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	registered := register(t, uc, "jane@example.com")

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "Jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	jane := register(t, uc, "jane@example.com")
	register(t, uc, "john@example.com")

	taken := "john@example.com"
	_, err := uc.UpdateProfile(context.Background(), jane.User.ID, &dto.UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, errors.ErrEmailInUse)

	name := "Jane Smith"
	email := "jane.smith@example.com"
	user, err := uc.UpdateProfile(context.Background(), jane.User.ID, &dto.UpdateProfileRequest{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name)
	assert.Equal(t, "jane.smith@example.com", user.Email)

	same := "jane.smith@example.com"
	_, err = uc.UpdateProfile(context.Background(), jane.User.ID, &dto.UpdateProfileRequest{Email: &same})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	jane := register(t, uc, "jane@example.com")

	err := uc.ChangePassword(context.Background(), jane.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	err = uc.ChangePassword(context.Background(), jane.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "secret1",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestMe_UnknownUser(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, err := uc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
