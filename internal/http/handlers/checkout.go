package handlers

import (
	"errors"
	"net/http"

	"github.com/chesser-academy/storefront/internal/checkout"
	"github.com/chesser-academy/storefront/internal/render"
)

// CheckoutPageResponse is the gated checkout page: the rendered summary
// region plus the raw order lines.
type CheckoutPageResponse struct {
	Summary render.SummaryView    `json:"summary"`
	Order   checkout.OrderSummary `json:"order"`
}

// GetCheckout handles GET /api/checkout requests. Logged-out visitors get a
// 401 with the login redirect the page should follow.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	order, err := u.Checkout.Summary(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, CheckoutPageResponse{
		Summary: u.Renderer.Summary(),
		Order:   *order,
	})
}

// SubmitCheckout handles POST /api/checkout/submit requests.
func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	receipt, err := u.Checkout.Submit(r.Context())
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

func (h *Handler) respondCheckoutError(w http.ResponseWriter, err error) {
	var denied *checkout.AccessDeniedError
	switch {
	case errors.As(err, &denied):
		respondJSON(w, http.StatusUnauthorized, errorResponse{
			Error:    "please log in to proceed to checkout",
			Redirect: denied.RedirectTo,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "Your cart is empty.")
	default:
		h.logger.Error("checkout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "checkout failed")
	}
}
