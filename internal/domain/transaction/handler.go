package transaction

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles transaction HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates transaction handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create records a fuel sale
// POST /employer/transactions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	t, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrDuplicateInvoice):
			response.Conflict(w, err.Error())
		case errors.Is(err, user.ErrNotFound):
			response.NotFound(w, "user not found")
		case errors.Is(err, pump.ErrNotFound):
			response.NotFound(w, "pump not found")
		default:
			response.InternalError(w, err)
		}
		return
	}
	response.Created(w, t)
}

// ListMine lists the employer's transactions with filters
// GET /employer/transactions?status=Completed&from=...&to=...&page=1&limit=20
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetUserID(r.Context())
	f := filterFromQuery(r)
	f.EmployerID = &employerID
	h.list(w, r, f)
}

// ListAll lists every transaction (admin)
// GET /admin/transactions
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, filterFromQuery(r))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f ListFilter) {
	items, total, err := h.service.List(r.Context(), f)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	limit := pageSize(f.Limit)
	page := f.Offset/limit + 1
	pages := (total + limit - 1) / limit
	response.WithPagination(w, items, response.Pagination{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// Get returns a transaction by ID
// GET /dashboard/transactions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid transaction id")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "transaction not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, t)
}

// GetByInvoice returns a transaction by invoice number
// GET /dashboard/transactions/invoice/{invoice}
func (h *Handler) GetByInvoice(w http.ResponseWriter, r *http.Request) {
	invoice := chi.URLParam(r, "invoice")
	if invoice == "" {
		response.BadRequest(w, "invoice number is required")
		return
	}
	t, err := h.service.GetByInvoice(r.Context(), invoice)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "transaction not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OK(w, t)
}

// Recent returns the latest transactions
// GET /dashboard/transactions/recent?limit=10
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, items)
}

// NextInvoice suggests the next invoice number
// GET /employer/transactions/next-invoice
func (h *Handler) NextInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.service.NextInvoiceNumber(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, map[string]string{"invoice_number": invoice})
}

// RewardPoints lists per-transaction points for the employer
// GET /employer/transactions/reward-points
func (h *Handler) RewardPoints(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.RewardPoints(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, rows)
}

// Stats returns ledger summary numbers (admin)
// GET /admin/transactions/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, stats)
}

func filterFromQuery(r *http.Request) ListFilter {
	q := r.URL.Query()
	f := ListFilter{Status: q.Get("status")}

	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		f.Offset = (page - 1) * pageSize(f.Limit)
	}
	if t, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		f.From = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		f.To = &t
	}
	if id, err := uuid.Parse(q.Get("user_id")); err == nil {
		f.UserID = &id
	}
	return f
}

func pageSize(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
