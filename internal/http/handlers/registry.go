// Package handlers exposes the storefront over JSON endpoints. Each browser
// gets its own universe of state, resolved from the visitor id the
// middleware attaches to every request.
package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/chesser-academy/storefront/internal/auth"
	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/internal/checkout"
	"github.com/chesser-academy/storefront/internal/observability/metrics"
	"github.com/chesser-academy/storefront/internal/render"
	"github.com/chesser-academy/storefront/internal/selection"
	"github.com/chesser-academy/storefront/internal/storage"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// Universe is the full set of storefront state for one visitor: cart,
// picker, session flags, projected views and checkout flow. Universes never
// share mutable state with each other.
type Universe struct {
	Cart     *cart.Store
	Selector *selection.Selector
	Sessions *auth.Sessions
	Renderer *render.Renderer
	Stream   *render.Stream
	Checkout *checkout.Flow
}

// Registry lazily builds and caches one Universe per visitor id. Carts hang
// off the shared durable store under namespaced keys; session flags live in
// a per-visitor session scope that dies with the process.
type Registry struct {
	durable storage.Durable
	pages   auth.Pages
	logger  *logging.Logger
	metrics *metrics.CartMetrics

	mu        sync.Mutex
	universes map[string]*Universe
}

// NewRegistry creates a registry over the shared durable store.
func NewRegistry(durable storage.Durable, pages auth.Pages, logger *logging.Logger, m *metrics.CartMetrics) *Registry {
	if durable == nil {
		panic("handlers: durable storage required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		durable:   durable,
		pages:     pages,
		logger:    logger,
		metrics:   m,
		universes: make(map[string]*Universe),
	}
}

// ForVisitor returns the visitor's universe, building and hydrating it on
// first sight. An unreadable cart record is not fatal: the cart starts empty
// and the load failure is logged.
func (reg *Registry) ForVisitor(ctx context.Context, visitorID string) *Universe {
	reg.mu.Lock()
	if u, ok := reg.universes[visitorID]; ok {
		reg.mu.Unlock()
		return u
	}
	reg.mu.Unlock()

	logger := reg.logger.With("visitor_id", visitorID)
	cartStore := cart.NewStore(reg.durable, "cart:"+visitorID, logger, reg.metrics)
	if err := cartStore.Load(ctx); err != nil {
		var readErr *cart.ReadError
		if !errors.As(err, &readErr) {
			logger.Error("cart hydration failed", "error", err)
		}
		// ReadError already logged by the store; the cart is empty and usable.
	}
	sessions := auth.NewSessions(storage.NewMemory(), reg.pages, logger)
	renderer := render.NewRenderer(cartStore, sessions, logger)

	u := &Universe{
		Cart:     cartStore,
		Selector: selection.NewSelector(cartStore, logger),
		Sessions: sessions,
		Renderer: renderer,
		Stream:   render.NewStream(renderer, logger),
		Checkout: checkout.NewFlow(cartStore, sessions, reg.pages.Home, logger, reg.metrics),
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if existing, ok := reg.universes[visitorID]; ok {
		// Lost the race; the first build wins.
		return existing
	}
	reg.universes[visitorID] = u
	return u
}
