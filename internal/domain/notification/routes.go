package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns notification router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Put("/read-all", h.MarkAllRead)
	r.Put("/{id}/read", h.MarkRead)
	r.Delete("/{id}", h.Delete)

	return r
}
