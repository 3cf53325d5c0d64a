package ports

import (
	"context"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

// UserRepository persists user records.
//
// Put inserts or replaces by ID and must enforce email uniqueness atomically,
// returning domain.ErrEmailTaken when another record already holds the email.
// Replace writes an existing record only and returns domain.ErrUserNotFound
// when the ID is gone, so a concurrent delete is never undone.
// Lookups return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Put(ctx context.Context, user *domain.User) error
	Replace(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleRepository persists the fixed set of named roles.
type RoleRepository interface {
	// ListRoles returns all roles ordered by name.
	ListRoles(ctx context.Context) ([]domain.Role, error)
	GetRoleByName(ctx context.Context, name string) (*domain.Role, error)
	// PutRole is used by bootstrap seeding only.
	PutRole(ctx context.Context, role domain.Role) error
}
