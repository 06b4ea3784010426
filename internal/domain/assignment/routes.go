package assignment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
)

// AdminRoutes returns pump assignment routes (mounted under /admin)
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Post("/assign-pump", h.AssignPump)
	r.Get("/pump-assignments", h.ListPumpAssignments)
	r.Put("/pump-assignments/{id}", h.UpdatePumpAssignment)
	r.Delete("/pump-assignments/{id}", h.DeletePumpAssignment)

	return r
}

// SupervisorRoutes returns gift/user assignment routes (mounted under /supervisor)
func (h *Handler) SupervisorRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireSupervisor())

	r.Post("/assign-gift", h.AssignGift)
	r.Get("/assignments", h.ListGiftAssignments)
	r.Post("/assign-user", h.AssignUser)
	r.Get("/user-assignments", h.ListUserAssignments)

	return r
}

// EmployerGiftRoutes returns the employer's gift assignment routes
// (mounted under /employer/gifts)
func (h *Handler) EmployerGiftRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireEmployer())

	r.Get("/", h.ListEmployerGifts)
	r.Put("/{id}/availability", h.SetGiftAvailability)
	r.Put("/{id}/status", h.AcceptGift)

	return r
}
