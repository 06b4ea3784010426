package pump

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
)

// AdminRoutes returns the admin pump router (mounted under /admin/pumps)
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}
