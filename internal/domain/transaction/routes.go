package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
)

// EmployerRoutes returns the employer transaction router
// (mounted under /employer/transactions)
func (h *Handler) EmployerRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireEmployer())

	r.Get("/", h.ListMine)
	r.Post("/", h.Create)
	r.Get("/next-invoice", h.NextInvoice)
	r.Get("/reward-points", h.RewardPoints)

	return r
}

// AdminRoutes returns the admin transaction router
// (mounted under /admin/transactions)
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Get("/", h.ListAll)
	r.Get("/stats", h.Stats)

	return r
}
