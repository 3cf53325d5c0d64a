package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

// SeedOptions configures the example accounts created on an empty store.
type SeedOptions struct {
	Password string
}

// Bootstrap seeds ADMIN and USER when no roles exist and two example accounts
// when no users exist. It is idempotent and must run before the server starts
// accepting requests.
func Bootstrap(ctx context.Context, roles ports.RoleRepository, users ports.UserService, opts SeedOptions, log zerolog.Logger) error {
	existing, err := roles.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: list roles: %w", err)
	}
	if len(existing) == 0 {
		for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
			if err := roles.PutRole(ctx, domain.Role{Name: name}); err != nil {
				return fmt.Errorf("bootstrap: seed role %s: %w", name, err)
			}
		}
		log.Info().Msg("seeded default roles")
	}

	all, err := users.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: list users: %w", err)
	}
	if len(all) > 0 {
		log.Debug().Int("users", len(all)).Msg("users exist, skipping account seed")
		return nil
	}

	if opts.Password == "" {
		log.Warn().Msg("SEED_PASSWORD empty, skipping example accounts")
		return nil
	}

	accounts := []ports.CreateUserInput{
		{
			FirstName: "Admin",
			LastName:  "Example",
			Age:       30,
			Email:     "admin@example.com",
			Password:  opts.Password,
			RoleNames: []string{domain.RoleAdmin, domain.RoleUser},
		},
		{
			FirstName: "User",
			LastName:  "Example",
			Age:       25,
			Email:     "user@example.com",
			Password:  opts.Password,
			RoleNames: []string{domain.RoleUser},
		},
	}
	for _, in := range accounts {
		if _, err := users.Create(ctx, in); err != nil {
			return fmt.Errorf("bootstrap: seed account %s: %w", in.Email, err)
		}
	}

	log.Warn().Msg("seeded example accounts; change their passwords")
	return nil
}
