package user

import (
	"time"

	"github.com/google/uuid"
)

// UpdateUserRequest for PUT /users/{id}
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,role"`
	Password *string `json:"password" validate:"omitempty,min=8,max=128"`
}

// CreateCustomerRequest for POST /employer/users
type CreateCustomerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UpdateCustomerRequest for PUT /employer/users/{id}
type UpdateCustomerRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=128"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWithPointsResponse is a user plus the reward points recomputed from the
// ledger. Non-customer roles always report zero.
type UserWithPointsResponse struct {
	UserResponse
	RewardPoints int64 `json:"reward_points"`
	Points       int64 `json:"points"`
}

// UserResponseFromEntity converts entity to response
func UserResponseFromEntity(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// TierResponse represents a customer tier in API responses
type TierResponse struct {
	Tier         string     `json:"tier"`
	Points       int64      `json:"points"`
	Transactions int64      `json:"transactions"`
	LastActivity *time.Time `json:"last_activity"`
}
