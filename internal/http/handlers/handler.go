package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/internal/catalog"
	"github.com/chesser-academy/storefront/internal/visitor"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// defaultAddedLabelReset matches the site's "Added!" button revert delay.
const defaultAddedLabelReset = 1500 * time.Millisecond

// Handler handles HTTP requests for the storefront.
type Handler struct {
	registry        *Registry
	catalog         *catalog.Catalog
	addedLabelReset time.Duration
	logger          *logging.Logger
}

// NewHandler creates a storefront handler. A zero addedLabelReset falls back
// to the site default.
func NewHandler(registry *Registry, cat *catalog.Catalog, addedLabelReset time.Duration, logger *logging.Logger) *Handler {
	if addedLabelReset <= 0 {
		addedLabelReset = defaultAddedLabelReset
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		registry:        registry,
		catalog:         cat,
		addedLabelReset: addedLabelReset,
		logger:          logger,
	}
}

// universe resolves the request's visitor universe. The visitor middleware
// guarantees an id on every routed request; a missing one is a wiring bug.
func (h *Handler) universe(w http.ResponseWriter, r *http.Request) (*Universe, bool) {
	visitorID, ok := visitor.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing visitor context", http.StatusInternalServerError)
		return nil, false
	}
	return h.registry.ForVisitor(r.Context(), visitorID), true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// ServiceView is one catalog offering with its schedule options.
type ServiceView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           string   `json:"price"`
	Kind            string   `json:"kind"`
	SessionsPerWeek int      `json:"sessions_per_week"`
	Days            []string `json:"days"`
	Times           []string `json:"times"`
}

// ListServicesResponse is the response for listing catalog services. The
// added-label reset delay is included so the page can time its "Added!"
// button revert.
type ListServicesResponse struct {
	Services          []ServiceView `json:"services"`
	AddedLabelResetMS int64         `json:"added_label_reset_ms"`
}

// ListServices handles GET /api/services requests.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services := h.catalog.Services()
	resp := ListServicesResponse{
		Services:          make([]ServiceView, 0, len(services)),
		AddedLabelResetMS: h.addedLabelReset.Milliseconds(),
	}
	for _, svc := range services {
		resp.Services = append(resp.Services, ServiceView{
			ID:              svc.ID,
			Name:            svc.Name,
			Price:           cart.Money(svc.PriceCents).String(),
			Kind:            string(svc.Kind),
			SessionsPerWeek: svc.SessionsPerWeek,
			Days:            catalog.DaysOfWeek,
			Times:           catalog.TimesFor(svc.Kind),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
