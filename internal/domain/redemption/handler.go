package redemption

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles redemption HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates redemption handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create opens a pending redemption for the authenticated customer
// POST /redemptions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRedemptionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	rd, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, rd)
}

// List returns redemptions visible to the authenticated principal
// GET /redemptions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// ListMine returns the authenticated customer's redemption history
// GET /users/redemptions
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// UpdateStatus moves a redemption through its state machine
// PUT /redemptions/{id}
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid redemption id")
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	rd, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OKWithMessage(w, rd, "redemption updated")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "redemption not found")
	case errors.Is(err, gift.ErrNotFound):
		response.NotFound(w, "gift not found")
	case errors.Is(err, ErrDuplicateOutstanding),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInsufficientPoints),
		errors.Is(err, ErrInvalidTransition):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, err)
	}
}

// Routes returns redemption router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSupervisor())
		r.Put("/{id}", h.UpdateStatus)
	})

	return r
}
