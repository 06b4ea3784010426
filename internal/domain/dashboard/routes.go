package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// TransactionLookups are the read-only transaction endpoints shared with the
// dashboard: by id, by invoice, and recent.
type TransactionLookups struct {
	Get          http.HandlerFunc
	GetByInvoice http.HandlerFunc
	Recent       http.HandlerFunc
}

// Routes returns the user-facing dashboard router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, lookups TransactionLookups, myRedemptions http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/my-transactions", h.MyTransactions)
	r.Get("/reward-points", h.MyRewardPoints)
	r.Get("/available-gifts", h.AvailableGifts)
	r.Get("/redemptions", myRedemptions)

	r.Get("/transactions/recent", lookups.Recent)
	r.Get("/transactions/invoice/{invoice}", lookups.GetByInvoice)
	r.Get("/transactions/{id}", lookups.Get)

	return r
}
