package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
)

// UserStore - пользователи в памяти, индекс по email
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := s.byEmail[email]; ok {
		return errors.ErrEmailInUse
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[email] = user.ID
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.users[user.ID]
	if !ok {
		return errors.ErrUserNotFound
	}

	newEmail := strings.ToLower(user.Email)
	oldEmail := strings.ToLower(old.Email)
	if newEmail != oldEmail {
		if _, taken := s.byEmail[newEmail]; taken {
			return errors.ErrEmailInUse
		}
		delete(s.byEmail, oldEmail)
		s.byEmail[newEmail] = user.ID
	}

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) GetRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make(map[string]domain.UserRef, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			refs[id] = u.Ref()
		}
	}
	return refs, nil
}
