package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/validator"
)

// Handler handles station settings HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates settings handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Get returns the station settings
// GET /admin/settings
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Get(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, s)
}

// Save replaces the station settings
// POST /admin/settings
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveSettingsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	s, err := h.repo.Save(r.Context(), &StationSettings{
		StationName:      req.StationName,
		Address:          req.Address,
		Phone:            req.Phone,
		Email:            req.Email,
		PetrolPrice:      req.PetrolPrice,
		DieselPrice:      req.DieselPrice,
		LPGPrice:         req.LPGPrice,
		CNGPrice:         req.CNGPrice,
		RewardMultiplier: req.RewardMultiplier,
		PointsPerLiter:   req.PointsPerLiter,
	})
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, s, "settings saved")
}

// Routes returns settings router (mounted under /admin)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Get("/", h.Get)
	r.Post("/", h.Save)

	return r
}
