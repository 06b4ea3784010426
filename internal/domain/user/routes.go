package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
)

// Routes returns user router. myRedemptions serves the authenticated
// customer's redemption history under this subtree.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, myRedemptions http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/redemptions", myRedemptions)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/tier", h.GetTier)
	})

	return r
}
