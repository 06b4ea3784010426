package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles user HTTP requests
type Handler struct {
	service *Service
	tiers   tier.Repository
}

// NewHandler creates user handler
func NewHandler(service *Service, tiers tier.Repository) *Handler {
	return &Handler{service: service, tiers: tiers}
}

// List returns all users, optionally filtered by role and email
// GET /users?role=user&email=foo@bar.com
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), r.URL.Query().Get("role"), r.URL.Query().Get("email"))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, users)
}

// Get returns a user by ID
// GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, UserResponseFromEntity(u))
}

// Update modifies a user's email, role or password
// PUT /users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "user not found")
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, "invalid role")
		case errors.Is(err, ErrAlreadyExists):
			response.Conflict(w, "email already in use for this role")
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.OKWithMessage(w, UserResponseFromEntity(u), "user updated")
}

// Delete removes a user together with its assignments, tier, redemptions,
// transactions and notifications
// DELETE /users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "user deleted")
}

// GetTier returns the loyalty tier for a customer. Users without any
// completed transaction get the Bronze zero-value.
// GET /users/{id}/tier
func (h *Handler) GetTier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if _, err := h.service.Get(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, err)
		return
	}

	t, err := h.tiers.GetByUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, tier.ErrNotFound) {
			response.OK(w, &TierResponse{Tier: "Bronze"})
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, &TierResponse{
		Tier:         t.Tier,
		Points:       t.Points,
		Transactions: t.Transactions,
		LastActivity: t.LastActivity,
	})
}
