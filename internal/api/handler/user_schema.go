package handler

import (
	"encoding/json"
	"time"
)

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type principalResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

type loginResponse struct {
	Token       string            `json:"token"`
	ExpiresAt   time.Time         `json:"expires_at"`
	Principal   principalResponse `json:"principal"`
	Destination string            `json:"destination"`
}

// Age is decoded as json.Number so fractional values are rejected instead of
// silently truncated.
type createUserRequest struct {
	FirstName string      `json:"first_name" validate:"max=100"`
	LastName  string      `json:"last_name"  validate:"max=100"`
	Age       json.Number `json:"age"`
	Email     string      `json:"email"      validate:"omitempty,email,max=254"`
	Password  string      `json:"password"` // byte limit checked by the service
	Roles     []string    `json:"roles"`
}

// Nil pointers mean "leave unchanged". Roles set to [] clears every role.
type updateUserRequest struct {
	FirstName *string      `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string      `json:"last_name"  validate:"omitempty,max=100"`
	Age       *json.Number `json:"age"`
	Email     *string      `json:"email"      validate:"omitempty,email,max=254"`
	Password  *string      `json:"password"`
	Roles     *[]string    `json:"roles"`
}

type userResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type roleResponse struct {
	Name string `json:"name"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type landingResponse struct {
	View      string            `json:"view"`
	Principal principalResponse `json:"principal"`
}
