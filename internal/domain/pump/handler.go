package pump

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles pump HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates pump handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create registers a new pump
// POST /admin/pumps
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePumpRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	p, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, err)
		return
	}
	response.Created(w, p)
}

// List returns all pumps
// GET /admin/pumps
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pumps, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, pumps)
}

// Get returns a pump by ID
// GET /admin/pumps/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid pump id")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "pump not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, p)
}

// Update applies partial changes to a pump
// PUT /admin/pumps/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid pump id")
		return
	}

	var req UpdatePumpRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	p, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "pump not found")
		case errors.Is(err, ErrNameTaken):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.OKWithMessage(w, p, "pump updated")
}

// Delete removes a pump
// DELETE /admin/pumps/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid pump id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "pump not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "pump deleted")
}

// Stats returns fleet counts
// GET /admin/pumps/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, stats)
}

// MyPumps lists pumps assigned to the authenticated employer
// GET /employer/pumps
func (h *Handler) MyPumps(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetUserID(r.Context())
	pumps, err := h.service.ListByEmployer(r.Context(), employerID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, pumps)
}

// RecordMeterReading stores a shift meter reading
// POST /employer/meter-reading
func (h *Handler) RecordMeterReading(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetUserID(r.Context())

	var req MeterReadingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	m, err := h.service.RecordMeterReading(r.Context(), employerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "pump not found")
		case errors.Is(err, ErrNotAssigned):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.Created(w, m)
}

// ReportMaintenance files a maintenance issue
// POST /employer/maintenance
func (h *Handler) ReportMaintenance(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetUserID(r.Context())

	var req MaintenanceReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	m, err := h.service.ReportMaintenance(r.Context(), employerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "pump not found")
		case errors.Is(err, ErrNotAssigned):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.Created(w, m)
}
