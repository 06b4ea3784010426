package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/database"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/password"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// EmployerDirectory is the slice of the assignment store the employer console
// needs: who is linked to an employer, and linking/unlinking itself.
// LinkUserToEmployer returns the raw database error so the caller can
// classify duplicate links.
type EmployerDirectory interface {
	ActiveUserIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error)
	LinkUserToEmployer(ctx context.Context, userID, employerID, assignedBy uuid.UUID) error
	DeactivateUserAssignment(ctx context.Context, userID, employerID uuid.UUID) error
}

// EmployerService manages the customers linked to one employer
type EmployerService struct {
	repo      Repository
	directory EmployerDirectory
	points    PointsProvider
}

// NewEmployerService creates employer-scoped user service
func NewEmployerService(repo Repository, directory EmployerDirectory, points PointsProvider) *EmployerService {
	return &EmployerService{repo: repo, directory: directory, points: points}
}

// ListCustomers returns the employer's actively linked customers with their
// ledger-derived points
func (s *EmployerService) ListCustomers(ctx context.Context, employerID uuid.UUID) ([]*UserWithPointsResponse, error) {
	ids, err := s.directory.ActiveUserIDsByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*UserWithPointsResponse, 0, len(users))
	for _, u := range users {
		pts, err := s.points.TotalCompletedPointsByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		item := &UserWithPointsResponse{UserResponse: *UserResponseFromEntity(u)}
		item.RewardPoints = pts
		item.Points = pts
		result = append(result, item)
	}
	return result, nil
}

// CreateCustomer registers a customer account and links it to the employer.
// If a customer with the email already exists it is linked instead of
// recreated.
func (s *EmployerService) CreateCustomer(ctx context.Context, employerID uuid.UUID, req *CreateCustomerRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.GetByEmailAndRole(ctx, email, RoleUser)
	if err != nil {
		return nil, err
	}
	if u == nil {
		hash, err := password.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		u = &User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			Role:         RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
	}

	if err := s.directory.LinkUserToEmployer(ctx, u.ID, employerID, employerID); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyLinked
		}
		return nil, err
	}
	return u, nil
}

// UpdateCustomer modifies a linked customer's email or password
func (s *EmployerService) UpdateCustomer(ctx context.Context, employerID, id uuid.UUID, req *UpdateCustomerRequest) (*User, error) {
	if err := s.requireLinked(ctx, employerID, id); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
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

// RemoveCustomer retires the employer link. The account itself is kept.
func (s *EmployerService) RemoveCustomer(ctx context.Context, employerID, id uuid.UUID) error {
	if err := s.requireLinked(ctx, employerID, id); err != nil {
		return err
	}
	return s.directory.DeactivateUserAssignment(ctx, id, employerID)
}

func (s *EmployerService) requireLinked(ctx context.Context, employerID, id uuid.UUID) error {
	ids, err := s.directory.ActiveUserIDsByEmployer(ctx, employerID)
	if err != nil {
		return err
	}
	for _, linked := range ids {
		if linked == id {
			return nil
		}
	}
	return ErrNotLinked
}

// EmployerHandler handles the employer customer console
type EmployerHandler struct {
	service *EmployerService
}

// NewEmployerHandler creates employer user handler
func NewEmployerHandler(service *EmployerService) *EmployerHandler {
	return &EmployerHandler{service: service}
}

// ListCustomers returns the customers linked to the calling employer
// GET /employer/users
func (h *EmployerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListCustomers(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, users)
}

// CreateCustomer registers and links a customer
// POST /employer/users
func (h *EmployerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, err := h.service.CreateCustomer(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyLinked):
			response.Conflict(w, "customer already assigned to you")
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.CreatedWithMessage(w, UserResponseFromEntity(u), "customer created")
}

// UpdateCustomer modifies a linked customer
// PUT /employer/users/{id}
func (h *EmployerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	var req UpdateCustomerRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, err := h.service.UpdateCustomer(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotLinked), errors.Is(err, ErrNotFound):
			response.NotFound(w, "customer not found")
		case errors.Is(err, ErrAlreadyExists):
			response.Conflict(w, "email already in use")
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.OKWithMessage(w, UserResponseFromEntity(u), "customer updated")
}

// RemoveCustomer unlinks a customer from the calling employer
// DELETE /employer/users/{id}
func (h *EmployerHandler) RemoveCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.service.RemoveCustomer(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotLinked) {
			response.NotFound(w, "customer not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "customer removed")
}

// EmployerRoutes returns the employer customer console router
func (h *EmployerHandler) EmployerRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireEmployer())

	r.Get("/", h.ListCustomers)
	r.Post("/", h.CreateCustomer)
	r.Put("/{id}", h.UpdateCustomer)
	r.Delete("/{id}", h.RemoveCustomer)

	return r
}
