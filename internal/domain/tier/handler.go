package tier

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
)

// Handler handles customer tier HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates tier handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List returns every customer tier row, highest points first
// GET /admin/customer-tiers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.repo.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, tiers)
}

// Backfill rebuilds every tier row from the completed transaction ledger.
// Idempotent; safe to run repeatedly.
// POST /admin/backfill-customer-tiers
func (h *Handler) Backfill(w http.ResponseWriter, r *http.Request) {
	n, err := h.repo.Backfill(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	log.Info().Int("users", n).Msg("Customer tiers backfilled")
	response.OKWithMessage(w, map[string]int{"users": n}, "customer tiers rebuilt")
}
