package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chesser-academy/storefront/internal/cart"
)

// SessionResponse reports the visitor's session flags.
type SessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// GetSession handles GET /api/session requests.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		LoggedIn: u.Sessions.IsLoggedIn(r.Context()),
		Username: u.Sessions.Username(r.Context()),
	})
}

// LoginResponse reports a fresh session and where to navigate next.
type LoginResponse struct {
	LoggedIn    bool   `json:"logged_in"`
	Username    string `json:"username"`
	Destination string `json:"destination"`
}

// Login handles POST /api/session/login requests. The external auth
// provider has already verified credentials; this records the flags and
// resolves the post-login destination.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username"`
		Redirect string `json:"redirect"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := u.Sessions.Login(r.Context(), req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, LoginResponse{
		LoggedIn:    true,
		Username:    req.Username,
		Destination: u.Sessions.PostLoginDestination(r.Context(), req.Redirect),
	})
}

// Register handles POST /api/session/register requests: a successful
// registration logs the visitor in and routes them to the services page.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := u.Sessions.MarkJustRegistered(r.Context()); err != nil {
		h.logger.Error("failed to mark registration", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	if err := u.Sessions.Login(r.Context(), req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, LoginResponse{
		LoggedIn:    true,
		Username:    req.Username,
		Destination: u.Sessions.PostLoginDestination(r.Context(), ""),
	})
}

// Logout handles POST /api/session/logout requests. Logging out drops the
// session flags and empties the cart, persisting the empty record.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	if err := u.Sessions.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	if err := u.Cart.Clear(r.Context()); err != nil {
		var warn *cart.WriteWarning
		if !errors.As(err, &warn) {
			h.logger.Error("cart clear on logout failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to log out")
			return
		}
		h.logger.Warn("cart cleared on logout but not saved durably", "error", warn)
	}
	respondJSON(w, http.StatusOK, SessionResponse{LoggedIn: false})
}
