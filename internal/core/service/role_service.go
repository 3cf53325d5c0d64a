package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

// RoleService resolves role names against the role store.
type RoleService struct {
	repo ports.RoleRepository
	log  zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, log zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, log: log}
}

// ListRoles returns every role ordered by name.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	role, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find role: %w", roleLookupError(name, err))
	}
	return role, nil
}

// ResolveRoles looks up every name or none. Names are checked in sorted order
// so the reported missing name is deterministic.
func (s *RoleService) ResolveRoles(ctx context.Context, names []string) ([]domain.Role, error) {
	names = domain.NormalizeRoleNames(names)

	roles := make([]domain.Role, 0, len(names))
	for _, n := range names {
		role, err := s.repo.GetRoleByName(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("resolve roles: %w", roleLookupError(n, err))
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func roleLookupError(name string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.RoleNotFoundError{Name: name}
	}
	return fmt.Errorf("role %q: %w", name, err)
}

func roleNames(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.Name
	}
	return out
}
