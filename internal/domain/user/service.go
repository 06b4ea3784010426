package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/pkg/password"
)

// PointsProvider recomputes a customer's reward points from the ledger
type PointsProvider interface {
	TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service handles user management business logic
type Service struct {
	repo   Repository
	points PointsProvider
}

// NewService creates user service
func NewService(repo Repository, points PointsProvider) *Service {
	return &Service{repo: repo, points: points}
}

// Get returns a user by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// List returns users filtered by role and email, with ledger-derived points
// for customer accounts.
func (s *Service) List(ctx context.Context, role, email string) ([]*UserWithPointsResponse, error) {
	users, err := s.repo.List(ctx, Role(role), strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	result := make([]*UserWithPointsResponse, 0, len(users))
	for _, u := range users {
		item := &UserWithPointsResponse{UserResponse: *UserResponseFromEntity(u)}
		if u.Role == RoleUser {
			pts, err := s.points.TotalCompletedPointsByUser(ctx, u.ID)
			if err != nil {
				return nil, err
			}
			item.RewardPoints = pts
			item.Points = pts
		}
		result = append(result, item)
	}
	return result, nil
}

// Update applies partial changes to a user account
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	if req.Role != nil {
		if !IsValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		u.Role = Role(*req.Role)
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := s.repo.EmailRoleTaken(ctx, email, u.Role, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrAlreadyExists
		}
		u.Email = email
	}

	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user and all dependent records
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	return s.repo.DeleteCascade(ctx, id)
}
