package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of an admin account.
// Roles form a chain: superadmin includes everything admin can do.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// rank orders roles; unknown roles rank below every known role
func (r Role) rank() int {
	switch r {
	case RoleSuperadmin:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r.rank() > 0
}

// Satisfies reports whether a principal holding r may act where required is needed
func (r Role) Satisfies(required Role) bool {
	return r.Valid() && r.rank() >= required.rank()
}

// String returns the wire value of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a wire value into a Role, defaulting empty input to admin
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleAdmin, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// Admin represents a dashboard operator account
type Admin struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	PasswordHash string     `json:"-" db:"hashed_password"`
	Role         Role       `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// TableName returns the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}

// NewAdmin creates an active Admin with a fresh id
func NewAdmin(email, fullName, passwordHash string, role Role) *Admin {
	return &Admin{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsSuperadmin returns true if the admin holds the superadmin role
func (a *Admin) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}
