package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/internal/selection"
)

// SelectionState is the picker's current draft, rendered for the page.
type SelectionState struct {
	Open         bool              `json:"open"`
	ServiceID    string            `json:"service_id,omitempty"`
	ServiceName  string            `json:"service_name,omitempty"`
	DaysRequired int               `json:"days_required,omitempty"`
	SelectedDays []string          `json:"selected_days"`
	PendingDays  []string          `json:"pending_days"`
	Times        map[string]string `json:"times"`
	TimeOptions  []string          `json:"time_options"`
}

func selectionState(sel *selection.Selector) SelectionState {
	state := SelectionState{
		SelectedDays: []string{},
		PendingDays:  []string{},
		Times:        map[string]string{},
		TimeOptions:  []string{},
	}
	svc, open := sel.Service()
	if !open {
		return state
	}
	state.Open = true
	state.ServiceID = svc.ID
	state.ServiceName = svc.Name
	state.DaysRequired = svc.SessionsPerWeek
	state.SelectedDays = append(state.SelectedDays, sel.SelectedDays()...)
	state.PendingDays = append(state.PendingDays, sel.PendingDays()...)
	state.TimeOptions = append(state.TimeOptions, sel.TimeOptions()...)
	for _, day := range state.SelectedDays {
		if slot, ok := sel.TimeFor(day); ok {
			state.Times[day] = slot
		}
	}
	return state
}

// GetSelection handles GET /api/selection requests.
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, selectionState(u.Selector))
}

// OpenSelection handles POST /api/selection/open requests.
func (h *Handler) OpenSelection(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	var req struct {
		ServiceID string `json:"service_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	svc, err := h.catalog.Get(req.ServiceID)
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown service")
		return
	}
	u.Selector.Open(svc)
	respondJSON(w, http.StatusOK, selectionState(u.Selector))
}

// CancelSelection handles POST /api/selection/cancel requests.
func (h *Handler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}
	u.Selector.Cancel()
	respondJSON(w, http.StatusOK, selectionState(u.Selector))
}

// ToggleSelectionDay handles POST /api/selection/days requests.
func (h *Handler) ToggleSelectionDay(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	var req struct {
		Day string `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := u.Selector.ToggleDay(req.Day); err != nil {
		h.respondSelectionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, selectionState(u.Selector))
}

// SetSelectionTime handles POST /api/selection/times requests.
func (h *Handler) SetSelectionTime(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	var req struct {
		Day  string `json:"day"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := u.Selector.SetTime(req.Day, req.Time); err != nil {
		h.respondSelectionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, selectionState(u.Selector))
}

// ConfirmSelectionResponse is the response for a confirmed selection.
type ConfirmSelectionResponse struct {
	Entry   *cart.Entry  `json:"entry"`
	Cart    CartResponse `json:"cart"`
	Warning string       `json:"warning,omitempty"`
}

// ConfirmSelection handles POST /api/selection/confirm requests.
func (h *Handler) ConfirmSelection(w http.ResponseWriter, r *http.Request) {
	u, ok := h.universe(w, r)
	if !ok {
		return
	}

	entry, err := u.Selector.Confirm(r.Context())
	warning := ""
	if err != nil {
		var warn *cart.WriteWarning
		if !errors.As(err, &warn) {
			h.respondSelectionError(w, err)
			return
		}
		warning = "your cart was updated but could not be saved"
	}
	respondJSON(w, http.StatusCreated, ConfirmSelectionResponse{
		Entry:   entry,
		Cart:    cartResponse(u.Cart, ""),
		Warning: warning,
	})
}

// respondSelectionError maps picker errors onto statuses: validation
// failures carry their user-facing messages, duplicates conflict, everything
// else is a bad request.
func (h *Handler) respondSelectionError(w http.ResponseWriter, err error) {
	var verr *selection.ValidationError
	var dup *cart.DuplicateError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    verr.Error(),
			Messages: verr.Messages(),
		})
	case errors.As(err, &dup):
		respondError(w, http.StatusConflict, dup.Error())
	case errors.Is(err, selection.ErrClosed):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
