package domain

import (
	"context"
	"time"
)

// Role names form a small fixed vocabulary.
const (
	RoleAdmin   = "admin"
	RoleStudent = "stud"
)

// RoleSet is an unordered collection of role names. A user's effective
// capability is determined by membership alone.
type RoleSet []string

// HasRole reports whether the set contains the given role.
func (r RoleSet) HasRole(role string) bool {
	for _, name := range r {
		if name == role {
			return true
		}
	}
	return false
}

// User is an identity record. Authentication itself lives outside the core;
// the core only consumes the role set for capability checks.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	Roles        RoleSet
	CreatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(username, email, passwordHash string, roles ...string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		Roles:        RoleSet(roles),
		CreatedAt:    time.Now(),
	}
}

// Validate validates the user
func (u *User) Validate() error {
	if u.Username == "" {
		return NewValidationError("username is required")
	}
	if u.Email == "" {
		return NewValidationError("email is required")
	}
	return nil
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	GetAllUsers(ctx context.Context) ([]*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SaveUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
}
