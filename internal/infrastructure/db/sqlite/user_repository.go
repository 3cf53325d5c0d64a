package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

const userColumns = "id, first_name, last_name, age, email, password_hash, created_at, updated_at"

type SQLiteUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                domain.User
		created, updated string
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &u.Email, &u.PasswordHash, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	u.Roles = []string{}
	return &u, nil
}

func (r *SQLiteUserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (r *SQLiteUserRepository) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT role_name FROM user_roles WHERE user_id = ? ORDER BY role_name", u.ID)
	if err != nil {
		return nil, fmt.Errorf("querying roles of user %s: %w", u.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		u.Roles = append(u.Roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roles: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users := []*domain.User{}
	byID := make(map[string]*domain.User)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
		byID[u.ID] = u
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	// The pool holds one connection, so roles are read after the user cursor closes.
	roleRows, err := r.db.QueryContext(ctx, "SELECT user_id, role_name FROM user_roles ORDER BY user_id, role_name")
	if err != nil {
		return nil, fmt.Errorf("listing user roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID, name string
		if err := roleRows.Scan(&userID, &name); err != nil {
			return nil, fmt.Errorf("scanning user role: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Roles = append(u.Roles, name)
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user roles: %w", err)
	}
	return users, nil
}

// Put inserts or replaces the user and its role set in one transaction. The
// UNIQUE email column rejects a second account with the same email.
func (r *SQLiteUserRepository) Put(ctx context.Context, user *domain.User) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			age = excluded.age,
			email = excluded.email,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		user.ID, user.FirstName, user.LastName, user.Age, user.Email, user.PasswordHash,
		formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("writing user %s: %w", user.ID, err)
	}

	if err = replaceRoles(ctx, tx, user); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing user %s: %w", user.ID, err)
	}
	return nil
}

// Replace updates an existing row only. Zero affected rows means the user was
// deleted after it was read.
func (r *SQLiteUserRepository) Replace(ctx context.Context, user *domain.User) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, age = ?, email = ?, password_hash = ?, updated_at = ?
		 WHERE id = ?`,
		user.FirstName, user.LastName, user.Age, user.Email, user.PasswordHash,
		formatTime(user.UpdatedAt), user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	if err = replaceRoles(ctx, tx, user); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing user %s: %w", user.ID, err)
	}
	return nil
}

func replaceRoles(ctx context.Context, tx *sql.Tx, user *domain.User) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id = ?", user.ID); err != nil {
		return fmt.Errorf("clearing roles of user %s: %w", user.ID, err)
	}
	for _, name := range user.Roles {
		if _, err := tx.ExecContext(ctx, "INSERT INTO user_roles (user_id, role_name) VALUES (?, ?)", user.ID, name); err != nil {
			return fmt.Errorf("assigning role %s to user %s: %w", name, user.ID, err)
		}
	}
	return nil
}

func (r *SQLiteUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *SQLiteUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id)
}

func (r *SQLiteUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email)
}

func (r *SQLiteUserRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return found, nil
}
