package dashboard

import (
	"net/http"
	"strconv"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/transaction"
	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AdminStats returns station-wide dashboard numbers
// GET /admin/dashboard/stats
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, stats)
}

// SupervisorStats returns the supervisor's dashboard numbers
// GET /supervisor/dashboard/stats
func (h *Handler) SupervisorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.SupervisorStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, stats)
}

// MyTransactions lists the customer's own transactions
// GET /dashboard/my-transactions?status=Completed&page=1&limit=20
func (h *Handler) MyTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := transaction.ListFilter{Status: q.Get("status")}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		f.Offset = (page - 1) * limit
	}

	items, total, err := h.service.MyTransactions(r.Context(), middleware.GetUserID(r.Context()), f)
	if err != nil {
		response.InternalError(w, err)
		return
	}

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

// MyRewardPoints returns the customer's points total and tier
// GET /dashboard/reward-points
func (h *Handler) MyRewardPoints(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.MyRewardPoints(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, details)
}

// AvailableGifts lists gifts reachable through the customer's scope
// GET /dashboard/available-gifts
func (h *Handler) AvailableGifts(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.service.AvailableGifts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, gifts)
}
