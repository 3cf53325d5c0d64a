package ports

import (
	"context"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

// CreateUserInput carries the fields for a new account. An empty RoleNames
// assigns the default USER role.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
	Password  string
	RoleNames []string
}

// UpdateUserInput is a merge-patch: only fields that are set are applied.
// RoleNames set to an empty slice clears every role.
type UpdateUserInput struct {
	FirstName domain.Optional[string]
	LastName  domain.Optional[string]
	Age       domain.Optional[int]
	Email     domain.Optional[string]
	Password  domain.Optional[string]
	RoleNames domain.Optional[[]string]
}

// UserService is the user directory.
type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleService resolves role names against the role store.
type RoleService interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	ResolveRoles(ctx context.Context, names []string) ([]domain.Role, error)
}
