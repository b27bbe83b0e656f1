package mongo

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// userDocument - документ коллекции users, email хранится в нижнем регистре
type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func newUserDocument(u *domain.User) *userDocument {
	return &userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewUserRepository создает репозиторий пользователей на MongoDB
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{
		coll:   db.db.Collection(UsersCollection),
		logger: db.logger,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrEmailInUse
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return doc.toDomain(), nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, newUserDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrEmailInUse
		}
		r.logger.Error("Failed to update user", zap.String("user_id", user.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if res.MatchedCount == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	refs := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to get user refs", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode user refs", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for i := range docs {
		refs[docs[i].ID] = docs[i].toDomain().Ref()
	}
	return refs, nil
}
