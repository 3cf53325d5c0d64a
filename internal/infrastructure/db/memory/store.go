// Package memory provides process-local stores for development and tests.
// Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

// UserStore implements ports.UserRepository. The email uniqueness check and
// the write happen under the same lock.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.byID[id].Clone(), nil
}

// List returns users ordered by creation time, then id.
func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *UserStore) Put(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byEmail[user.Email]; ok && owner != user.ID {
		return domain.ErrEmailTaken
	}
	if prev, ok := s.byID[user.ID]; ok && prev.Email != user.Email {
		delete(s.byEmail, prev.Email)
	}
	s.byID[user.ID] = user.Clone()
	s.byEmail[user.Email] = user.ID
	return nil
}

// Replace is Put restricted to an ID that is still present.
func (s *UserStore) Replace(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if owner, ok := s.byEmail[user.Email]; ok && owner != user.ID {
		return domain.ErrEmailTaken
	}
	if prev.Email != user.Email {
		delete(s.byEmail, prev.Email)
	}
	s.byID[user.ID] = user.Clone()
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.byID, id)
	return nil
}

func (s *UserStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok, nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

// RoleStore implements ports.RoleRepository.
type RoleStore struct {
	mu    sync.RWMutex
	roles map[string]domain.Role
}

func NewRoleStore() *RoleStore {
	return &RoleStore{roles: make(map[string]domain.Role)}
}

func (s *RoleStore) ListRoles(_ context.Context) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *RoleStore) GetRoleByName(_ context.Context, name string) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &r, nil
}

func (s *RoleStore) PutRole(_ context.Context, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.Name] = role
	return nil
}
