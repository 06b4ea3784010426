package gift

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles gift HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates gift handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Create registers a new gift
// POST /gifts
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGiftRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	g := &Gift{
		ID:             uuid.New(),
		Name:           req.Name,
		Description:    req.Description,
		PointsRequired: req.PointsRequired,
		Value:          req.Value,
		Category:       req.Category,
		Stock:          req.Stock,
		Active:         active,
	}
	if err := h.repo.Create(r.Context(), g); err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, err)
		return
	}
	response.Created(w, g)
}

// List returns all gifts; ?active=true filters to active ones
// GET /gifts
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.repo.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, gifts)
}

// Get returns a gift by ID
// GET /gifts/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid gift id")
		return
	}
	g, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "gift not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, g)
}

// Update applies partial changes to a gift
// PUT /gifts/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid gift id")
		return
	}

	var req UpdateGiftRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	g, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "gift not found")
			return
		}
		response.InternalError(w, err)
		return
	}

	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.PointsRequired != nil {
		g.PointsRequired = *req.PointsRequired
	}
	if req.Value != nil {
		g.Value = *req.Value
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.Stock != nil {
		g.Stock = *req.Stock
	}
	if req.Active != nil {
		g.Active = *req.Active
	}

	if err := h.repo.Update(r.Context(), g); err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, g, "gift updated")
}

// Delete removes a gift
// DELETE /gifts/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid gift id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "gift not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "gift deleted")
}
