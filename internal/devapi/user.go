// Package devapi is a development implementation of the backend's
// authentication contract (POST /auth/login, GET /auth/verify-token) plus a
// token-protected sample resource, so the dashboard gateway can run and be
// tested without the production API.
package devapi

import (
	"context"
	"errors"
	"time"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// User is a backend account. Only the profile part ever leaves the service.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile returns the public snapshot of u.
func (u *User) Profile() domain.UserProfile {
	return domain.UserProfile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserRepository defines persistence for backend accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}
