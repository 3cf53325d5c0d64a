package handler

import (
	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) (ports.CreateUserInput, error) {
	age := 0
	if req.Age != "" {
		n, err := domain.ParseAge(req.Age.String())
		if err != nil {
			return ports.CreateUserInput{}, err
		}
		age = n
	}
	return ports.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       age,
		Email:     req.Email,
		Password:  req.Password,
		RoleNames: req.Roles,
	}, nil
}

func toUpdateInput(req updateUserRequest) (ports.UpdateUserInput, error) {
	in := ports.UpdateUserInput{
		FirstName: domain.FromPtr(req.FirstName),
		LastName:  domain.FromPtr(req.LastName),
		Email:     domain.FromPtr(req.Email),
		Password:  domain.FromPtr(req.Password),
	}
	if req.Age != nil {
		n, err := domain.ParseAge(req.Age.String())
		if err != nil {
			return ports.UpdateUserInput{}, err
		}
		in.Age = domain.Some(n)
	}
	if req.Roles != nil {
		roles := *req.Roles
		if roles == nil {
			roles = []string{}
		}
		in.RoleNames = domain.Some(roles)
	}
	return in, nil
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toPrincipalResponse(p domain.Principal) principalResponse {
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	return principalResponse{UserID: p.UserID, Roles: roles}
}
