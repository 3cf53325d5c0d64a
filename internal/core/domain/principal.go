package domain

import "strings"

// Principal is the authenticated identity produced by a successful login.
// It carries no profile data and no credential material.
type Principal struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// HasRole reports whether the principal holds exactly the named role.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of names.
func (p *Principal) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if p.HasRole(n) {
			return true
		}
	}
	return false
}

// hasRoleFold matches a role ignoring case and an optional ROLE_ prefix.
func (p *Principal) hasRoleFold(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		r = strings.TrimPrefix(r, "ROLE_")
		if r == strings.ToUpper(name) {
			return true
		}
	}
	return false
}

// Destinations holds the post-login landing paths.
type Destinations struct {
	Admin   string
	User    string
	Default string
}

// DefaultDestinations mirrors the routes the API exposes.
var DefaultDestinations = Destinations{Admin: "/admin", User: "/user", Default: "/"}

// Resolve picks the landing path for p. ADMIN is checked before USER and the
// first match wins.
func (d Destinations) Resolve(p *Principal) string {
	switch {
	case p.hasRoleFold(RoleAdmin):
		return d.Admin
	case p.hasRoleFold(RoleUser):
		return d.User
	default:
		return d.Default
	}
}
