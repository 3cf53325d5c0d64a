package domain

import (
	"sort"
	"strings"
	"time"
)

// Built-in role names seeded on first start.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// MaxPasswordBytes is the bcrypt input limit, applied to every algorithm.
const MaxPasswordBytes = 72

// User is a persisted account. Roles holds role names resolved against the
// role store at write time; the slice is kept sorted and free of duplicates.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Age          int       `json:"age"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share the Roles backing array.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

// HasRole reports whether the user holds the exact role name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Role is a named permission group.
type Role struct {
	Name string `json:"name"`
}

// NormalizeRoleNames trims, drops blanks, de-duplicates and sorts.
func NormalizeRoleNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
