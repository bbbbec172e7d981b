package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for user accounts.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListPage(ctx context.Context, offset, limit int) ([]User, int64, error)
	ListPageByUsername(ctx context.Context, offset, limit int, username string) ([]User, int64, error)
	UpdateProfile(ctx context.Context, id int64, params UpdateProfileParams) (User, error)
	UpdateRole(ctx context.Context, id int64, role Role) (User, error)
	Delete(ctx context.Context, id int64) error
}

// Role enumerates account roles. The set is flat: admin does not
// implicitly carry user permissions, checks are by exact membership.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a stored user account with authentication material.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy of the user with the password hash stripped.
// Every outward-facing path returns a sanitized user.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// UpdateProfileParams carries the self-service profile fields. Email,
// password and role deliberately have no place here.
type UpdateProfileParams struct {
	Name         *string
	Username     *string
	ProfileImage *string
}
