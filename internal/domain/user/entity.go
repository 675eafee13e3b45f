package user

import (
	"context"
	"time"
)

// Role enum
type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// User is a portal account. Employee accounts are created (or re-enabled)
// when a payroll batch is approved; until then CanLogin is false.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	EmpID        *string
	CanLogin     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines data access for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmpID(ctx context.Context, empID string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	SetCanLogin(ctx context.Context, id string, canLogin bool) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
