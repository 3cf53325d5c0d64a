package domain

import (
	"fmt"
	"strings"
)

// AccessKind enumerates the route requirement shapes.
type AccessKind int

const (
	AccessPublic AccessKind = iota
	AccessAuthenticated
	AccessRole
	AccessAnyRole
)

// Requirement is what a route declares about who may call it.
type Requirement struct {
	Kind  AccessKind
	Roles []string
}

// Public permits every caller.
func Public() Requirement { return Requirement{Kind: AccessPublic} }

// AuthenticatedAny permits any caller with a principal.
func AuthenticatedAny() Requirement { return Requirement{Kind: AccessAuthenticated} }

// RequiresRole permits principals holding name.
func RequiresRole(name string) Requirement {
	return Requirement{Kind: AccessRole, Roles: []string{name}}
}

// RequiresAnyRole permits principals holding at least one of names.
func RequiresAnyRole(names ...string) Requirement {
	return Requirement{Kind: AccessAnyRole, Roles: append([]string(nil), names...)}
}

func (r Requirement) String() string {
	switch r.Kind {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessRole:
		return "role:" + strings.Join(r.Roles, ",")
	case AccessAnyRole:
		return "any_role:" + strings.Join(r.Roles, ",")
	default:
		return fmt.Sprintf("unknown(%d)", int(r.Kind))
	}
}

// Authorize decides whether p satisfies r. A nil principal fails with
// ErrUnauthorized; a principal lacking the roles fails with ErrForbidden.
func (r Requirement) Authorize(p *Principal) error {
	if r.Kind == AccessPublic {
		return nil
	}
	if p == nil {
		return ErrUnauthorized
	}

	switch r.Kind {
	case AccessAuthenticated:
		return nil
	case AccessRole:
		if len(r.Roles) == 1 && p.HasRole(r.Roles[0]) {
			return nil
		}
	case AccessAnyRole:
		if p.HasAnyRole(r.Roles...) {
			return nil
		}
	}
	return fmt.Errorf("%w: requires %s", ErrForbidden, r)
}
