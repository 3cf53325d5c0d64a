package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

type SQLiteRoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *SQLiteRoleRepository {
	return &SQLiteRoleRepository{db: db}
}

func (r *SQLiteRoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM roles ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.Name); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roles: %w", err)
	}
	return roles, nil
}

func (r *SQLiteRoleRepository) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, "SELECT name FROM roles WHERE name = ?", name).Scan(&role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("querying role %s: %w", name, err)
	}
	return &role, nil
}

func (r *SQLiteRoleRepository) PutRole(ctx context.Context, role domain.Role) error {
	if _, err := r.db.ExecContext(ctx, "INSERT OR IGNORE INTO roles (name) VALUES (?)", role.Name); err != nil {
		return fmt.Errorf("inserting role %s: %w", role.Name, err)
	}
	return nil
}
