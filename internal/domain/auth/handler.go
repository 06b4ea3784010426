package auth

import (
	"errors"
	"net/http"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
	"github.com/google/uuid"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register creates a new account
// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.Created(w, resp)
}

// Login authenticates an account by (email, role)
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, resp)
}

// Refresh rotates the refresh token
// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshTokenRequired):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrUserNotFound):
			response.Unauthorized(w, ErrInvalidRefreshToken.Error())
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.OK(w, resp)
}

// Logout invalidates the refresh token
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = response.DecodeJSON(r.Body, &req)

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "logged out")
}

// Me returns the authenticated account
// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	u, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, u)
}
