package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository создает репозиторий пользователей
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return errors.ErrEmailInUse
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return row.toDomain(), nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.UpdatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return errors.ErrEmailInUse
		}
		r.logger.Error("Failed to update user", zap.String("user_id", user.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	refs := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	var rows []domain.UserRef
	query := `SELECT id, name, email FROM users WHERE id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		r.logger.Error("Failed to get user refs", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for _, ref := range rows {
		refs[ref.ID] = ref
	}
	return refs, nil
}
