package handlers

import (
	"net/http"
)

// GetViews handles GET /api/views requests: the full projected snapshot for
// hydrating a page on load.
func (h *Handler) GetViews(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, u.Renderer.Views(r.Context()))
}

// StreamViews handles GET /ws/views requests, upgrading to a websocket that
// pushes a refreshed snapshot after every cart change.
func (h *Handler) StreamViews(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	u.Stream.HandleWebSocket(w, r)
}
