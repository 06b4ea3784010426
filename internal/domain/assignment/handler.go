package assignment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles assignment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates assignment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AssignPump assigns a pump to an employer
// POST /admin/assign-pump
func (h *Handler) AssignPump(w http.ResponseWriter, r *http.Request) {
	var req AssignPumpRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.service.AssignPump(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, a)
}

// ListPumpAssignments lists all pump assignments
// GET /admin/pump-assignments
func (h *Handler) ListPumpAssignments(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPumpAssignments(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// UpdatePumpAssignment changes a pump assignment status
// PUT /admin/pump-assignments/{id}
func (h *Handler) UpdatePumpAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid assignment id")
		return
	}

	var req UpdatePumpAssignmentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.service.UpdatePumpAssignment(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OKWithMessage(w, a, "assignment updated")
}

// DeletePumpAssignment removes a pump assignment
// DELETE /admin/pump-assignments/{id}
func (h *Handler) DeletePumpAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid assignment id")
		return
	}
	if err := h.service.DeletePumpAssignment(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "assignment deleted")
}

// AssignUser links a customer to an employer
// POST /supervisor/assign-user
func (h *Handler) AssignUser(w http.ResponseWriter, r *http.Request) {
	var req AssignUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.service.AssignUser(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, a)
}

// ListUserAssignments lists user assignments created by the supervisor
// GET /supervisor/user-assignments
func (h *Handler) ListUserAssignments(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUserAssignments(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// AssignGift offers a gift to an employer or customer
// POST /supervisor/assign-gift
func (h *Handler) AssignGift(w http.ResponseWriter, r *http.Request) {
	var req AssignGiftRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	a, err := h.service.AssignGift(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, a)
}

// ListGiftAssignments lists gift assignments created by the supervisor
// GET /supervisor/assignments
func (h *Handler) ListGiftAssignments(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListGiftAssignments(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// ListEmployerGifts lists the employer's gift assignments
// GET /employer/gifts
func (h *Handler) ListEmployerGifts(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListEmployerGifts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// SetGiftAvailability toggles a gift assignment's availability
// PUT /employer/gifts/{id}/availability
func (h *Handler) SetGiftAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid assignment id")
		return
	}

	var req AvailabilityRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	a, err := h.service.SetGiftAvailability(r.Context(), id, middleware.GetUserID(r.Context()), req.IsAvailable)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OKWithMessage(w, a, "availability updated")
}

// AcceptGift accepts a pending gift assignment
// PUT /employer/gifts/{id}/status
func (h *Handler) AcceptGift(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid assignment id")
		return
	}

	a, err := h.service.AcceptGift(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OKWithMessage(w, a, "gift accepted")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "assignment not found")
	case errors.Is(err, user.ErrNotFound):
		response.NotFound(w, "user not found")
	case errors.Is(err, pump.ErrNotFound):
		response.NotFound(w, "pump not found")
	case errors.Is(err, gift.ErrNotFound):
		response.NotFound(w, "gift not found")
	case errors.Is(err, ErrPumpAlreadyAssigned), errors.Is(err, ErrUserAlreadyAssigned):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidTargetRole), errors.Is(err, ErrNotPending):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotAssignee):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, err)
	}
}
