package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

// UserService is the user directory: it owns email uniqueness and role
// consistency, and delegates hashing and role lookup.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleService
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewUserService(users ports.UserRepository, roles ports.RoleService, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return u, nil
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ok, err := s.users.ExistsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, fmt.Errorf("check email %q: %w", email, err)
	}
	return ok, nil
}

// Create validates, resolves roles (USER when none are given), hashes the
// password and persists a new account.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	firstName := strings.TrimSpace(in.FirstName)

	switch {
	case firstName == "":
		return nil, domain.Invalid("first_name", "is required")
	case email == "":
		return nil, domain.Invalid("email", "is required")
	case strings.TrimSpace(in.Password) == "":
		return nil, domain.Invalid("password", "is required")
	case len(in.Password) > domain.MaxPasswordBytes:
		return nil, errPasswordTooLong
	case in.Age < 0:
		return nil, domain.Invalid("age", "must not be negative")
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", email, err)
	}
	if taken {
		return nil, fmt.Errorf("create user %q: %w", email, domain.ErrEmailTaken)
	}

	roles, err := s.initialRoles(ctx, in.RoleNames)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", email, err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", email, err)
	}

	now := s.now()
	user := &domain.User{
		ID:           s.newID(),
		FirstName:    firstName,
		LastName:     strings.TrimSpace(in.LastName),
		Age:          in.Age,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %q: %w", email, err)
	}

	s.log.Info().Str("user_id", user.ID).Strs("roles", user.Roles).Msg("user created")
	return user, nil
}

func (s *UserService) initialRoles(ctx context.Context, names []string) ([]string, error) {
	if len(domain.NormalizeRoleNames(names)) == 0 {
		role, err := s.roles.FindRoleByName(ctx, domain.RoleUser)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrDefaultRoleMissing
			}
			return nil, err
		}
		return []string{role.Name}, nil
	}

	resolved, err := s.roles.ResolveRoles(ctx, names)
	if err != nil {
		return nil, err
	}
	return roleNames(resolved), nil
}

// Update applies a merge-patch. Absent fields are untouched; a set but empty
// RoleNames clears the roles and no default role is ever assigned here.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if v, ok := in.Password.Get(); ok && len(v) > domain.MaxPasswordBytes {
		return nil, errPasswordTooLong
	}

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	if v, ok := in.FirstName.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, domain.Invalid("first_name", "must not be blank")
		}
		user.FirstName = v
	}
	if v, ok := in.LastName.Get(); ok {
		user.LastName = strings.TrimSpace(v)
	}
	if v, ok := in.Age.Get(); ok {
		if v < 0 {
			return nil, domain.Invalid("age", "must not be negative")
		}
		user.Age = v
	}

	if v, ok := in.Email.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, domain.Invalid("email", "must not be blank")
		}
		if v != user.Email {
			if err := s.ensureEmailFree(ctx, v, user.ID); err != nil {
				return nil, fmt.Errorf("update user %s: %w", id, err)
			}
			user.Email = v
		}
	}

	if names, ok := in.RoleNames.Get(); ok {
		if len(domain.NormalizeRoleNames(names)) == 0 {
			user.Roles = []string{}
		} else {
			resolved, err := s.roles.ResolveRoles(ctx, names)
			if err != nil {
				return nil, fmt.Errorf("update user %s: %w", id, err)
			}
			user.Roles = roleNames(resolved)
		}
	}

	if v, ok := in.Password.Get(); ok && strings.TrimSpace(v) != "" {
		hash, err := s.hashPassword(v)
		if err != nil {
			return nil, fmt.Errorf("update user %s: %w", id, err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.now()
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

var errPasswordTooLong = domain.Invalid("password", fmt.Sprintf("must be at most %d bytes", domain.MaxPasswordBytes))

// hashPassword passes the hasher's input errors through and reports any other
// failure as internal.
func (s *UserService) hashPassword(plaintext string) (string, error) {
	hash, err := s.hasher.Hash(plaintext)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, domain.ErrValidation):
		return "", err
	default:
		return "", fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	other, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != ownerID:
		return domain.ErrEmailTaken
	default:
		return nil
	}
}

// Delete removes the account permanently.
func (s *UserService) Delete(ctx context.Context, id string) error {
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("delete user %s: %w", id, domain.ErrUserNotFound)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
