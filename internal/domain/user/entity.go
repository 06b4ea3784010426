package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleEmployer   Role = "employer"
)

// IsValidRole checks if role is valid
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAdmin, RoleSupervisor, RoleEmployer:
		return true
	}
	return false
}

// User represents a user account. Identity is the (email, role) pair: the same
// email may hold separate accounts in different roles.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
