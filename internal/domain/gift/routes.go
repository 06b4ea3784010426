package gift

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
)

// Routes returns gift router. Reads are open to any authenticated role;
// mutations are admin only.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
