package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chesser-academy/storefront/internal/cart"
)

// CartResponse is the response for reading the cart.
type CartResponse struct {
	Items   []cart.Entry `json:"items"`
	Count   int          `json:"count"`
	Total   cart.Money   `json:"total"`
	Warning string       `json:"warning,omitempty"`
}

func cartResponse(store *cart.Store, warning string) CartResponse {
	items := store.Items()
	if items == nil {
		items = []cart.Entry{}
	}
	return CartResponse{
		Items:   items,
		Count:   len(items),
		Total:   store.TotalPrice(),
		Warning: warning,
	}
}

// GetCart handles GET /api/cart requests.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(u.Cart, ""))
}

// AddCartItem handles POST /api/cart/items requests: a direct add with a
// full session list, bypassing the picker.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	var req cart.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	warning := ""
	if err := u.Cart.Add(r.Context(), req); err != nil {
		var dup *cart.DuplicateError
		var warn *cart.WriteWarning
		switch {
		case errors.As(err, &dup):
			respondError(w, http.StatusConflict, dup.Error())
			return
		case errors.As(err, &warn):
			warning = "your cart was updated but could not be saved"
		default:
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	respondJSON(w, http.StatusCreated, cartResponse(u.Cart, warning))
}

// RemoveCartItem handles DELETE /api/cart/items/{uniqueID} requests.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	uniqueID := chi.URLParam(r, "uniqueID")
	if uniqueID == "" {
		respondError(w, http.StatusBadRequest, "missing unique id")
		return
	}

	warning := ""
	if err := u.Cart.Remove(r.Context(), uniqueID); err != nil {
		var warn *cart.WriteWarning
		if !errors.As(err, &warn) {
			h.logger.Error("cart remove failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to update cart")
			return
		}
		warning = "your cart was updated but could not be saved"
	}
	respondJSON(w, http.StatusOK, cartResponse(u.Cart, warning))
}
