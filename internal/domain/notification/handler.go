package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
)

// Handler handles notification HTTP requests
type Handler struct {
	service *Service
	hub     *Hub
}

// NewHandler creates notification handler
func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// List returns the authenticated user's notifications
// GET /notifications?unread=true&limit=50&offset=0
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.List(r.Context(), userID, r.URL.Query().Get("unread") == "true", limit, offset)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	unread, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items":        items,
		"unread_count": unread,
	})
}

// MarkRead marks one notification as read
// PUT /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "notification not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "notification marked as read")
}

// MarkAllRead marks every unread notification as read
// PUT /notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkAllRead(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "all notifications marked as read")
}

// Delete removes a notification
// DELETE /notifications/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if err := h.service.Delete(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "notification not found")
			return
		}
		response.InternalError(w, err)
		return
	}
	response.OKWithMessage(w, nil, "notification deleted")
}

// ServeWS upgrades to a WebSocket session for realtime notifications
// GET /ws/notifications
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.hub.ServeWS(w, r, userID)
}
