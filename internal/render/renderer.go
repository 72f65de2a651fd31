// Package render is the presentation sync layer: a pure projection of the
// cart store into the header badge, cart drawer and checkout summary. It
// holds no state of its own beyond the latest cart snapshot and re-renders
// on every store notification.
package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/chesser-academy/storefront/internal/auth"
	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// Renderer projects one visitor's cart and session flags into views.
type Renderer struct {
	sessions *auth.Sessions
	logger   *logging.Logger

	mu        sync.RWMutex
	items     []cart.Entry
	total     cart.Money
	listeners []func(Snapshot)
}

// NewRenderer subscribes to the cart store once and keeps the projected
// snapshot current from then on.
func NewRenderer(cartStore *cart.Store, sessions *auth.Sessions, logger *logging.Logger) *Renderer {
	if cartStore == nil {
		panic("render: cart store required")
	}
	if sessions == nil {
		panic("render: sessions required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	r := &Renderer{
		sessions: sessions,
		logger:   logger,
		items:    cartStore.Items(),
		total:    cartStore.TotalPrice(),
	}
	cartStore.Subscribe(r.onCartChange)
	return r
}

// OnChange registers a listener for refreshed snapshots. Used by the view
// stream to push updates.
func (r *Renderer) OnChange(fn func(Snapshot)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Renderer) onCartChange(items []cart.Entry) {
	var total cart.Money
	for _, item := range items {
		total += item.Price
	}

	r.mu.Lock()
	r.items = items
	r.total = total
	listeners := make([]func(Snapshot), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	if len(listeners) == 0 {
		return
	}
	snapshot := r.Views(context.Background())
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Header renders the header actions region.
func (r *Renderer) Header(ctx context.Context) HeaderView {
	r.mu.RLock()
	count := len(r.items)
	r.mu.RUnlock()

	return HeaderView{
		LoggedIn:      r.sessions.IsLoggedIn(ctx),
		Username:      r.sessions.Username(ctx),
		CartItemCount: count,
	}
}

// Drawer renders the cart drawer region.
func (r *Renderer) Drawer() DrawerView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := DrawerView{
		Items: make([]DrawerItemView, 0, len(r.items)),
		Total: r.total.String(),
	}
	for _, item := range r.items {
		sessions := make([]string, 0, len(item.Sessions))
		for _, s := range item.Sessions {
			sessions = append(sessions, fmt.Sprintf("%s %s", s.Day, s.Time))
		}
		view.Items = append(view.Items, DrawerItemView{
			UniqueID: item.UniqueID,
			Name:     item.Name,
			Price:    item.Price.String(),
			Sessions: sessions,
		})
	}
	if len(view.Items) == 0 {
		view.Empty = true
		view.EmptyMessage = emptyCartMessage
	}
	return view
}

// Summary renders the checkout order summary region.
func (r *Renderer) Summary() SummaryView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := SummaryView{
		Items: make([]SummaryItemView, 0, len(r.items)),
		Total: r.total.String(),
	}
	for _, item := range r.items {
		view.Items = append(view.Items, SummaryItemView{
			Name:  item.Name,
			Price: item.Price.String(),
		})
	}
	view.Empty = len(view.Items) == 0
	view.ShowPaymentForm = !view.Empty
	return view
}

// Views renders all three regions from the same snapshot.
func (r *Renderer) Views(ctx context.Context) Snapshot {
	return Snapshot{
		Header:  r.Header(ctx),
		Drawer:  r.Drawer(),
		Summary: r.Summary(),
	}
}
