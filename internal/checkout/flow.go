// Package checkout gates the checkout page behind the login flag, serves
// the order summary and turns a submission into a cleared cart.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/chesser-academy/storefront/internal/auth"
	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/internal/observability/metrics"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// ErrEmptyCart is returned when a purchase is submitted with nothing in the
// cart.
var ErrEmptyCart = errors.New("your cart is empty")

// AccessDeniedError means checkout was attempted without an active session.
// It carries the login URL that returns the visitor here afterwards. Not an
// application fault.
type AccessDeniedError struct {
	RedirectTo string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("please log in to proceed to checkout (redirect: %s)", e.RedirectTo)
}

// Receipt reports a completed purchase.
type Receipt struct {
	Message        string     `json:"message"`
	Total          cart.Money `json:"total"`
	ItemsPurchased int        `json:"items_purchased"`
	ReturnTo       string     `json:"return_to"`
}

const purchaseMessage = "Thank you for your purchase! Your training begins now."

// Flow coordinates the checkout page.
type Flow struct {
	cart     *cart.Store
	sessions *auth.Sessions
	homePage string
	logger   *logging.Logger
	metrics  *metrics.CartMetrics
}

// NewFlow creates a checkout flow over the visitor's cart and session flags.
func NewFlow(cartStore *cart.Store, sessions *auth.Sessions, homePage string, logger *logging.Logger, m *metrics.CartMetrics) *Flow {
	if cartStore == nil {
		panic("checkout: cart store required")
	}
	if sessions == nil {
		panic("checkout: sessions required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Flow{
		cart:     cartStore,
		sessions: sessions,
		homePage: homePage,
		logger:   logger,
		metrics:  m,
	}
}

// Authorize checks the session flag. Without an active session the caller
// gets an AccessDeniedError pointing at the login page with a return path.
func (f *Flow) Authorize(ctx context.Context) error {
	if !f.sessions.IsLoggedIn(ctx) {
		f.metrics.ObserveCheckout("denied")
		return &AccessDeniedError{RedirectTo: f.sessions.CheckoutRedirect()}
	}
	return nil
}

// OrderSummary is the checkout page's order data.
type OrderSummary struct {
	Items []cart.Entry `json:"items"`
	Total cart.Money   `json:"total"`
}

// Summary returns the order lines and total for an authorized visitor.
func (f *Flow) Summary(ctx context.Context) (*OrderSummary, error) {
	if err := f.Authorize(ctx); err != nil {
		return nil, err
	}
	items := f.cart.Items()
	if items == nil {
		items = []cart.Entry{}
	}
	return &OrderSummary{Items: items, Total: f.cart.TotalPrice()}, nil
}

// Submit completes the purchase: the cart is cleared, the empty record is
// persisted and the visitor is sent home. A durable write failure on the
// clear is logged but does not fail the purchase.
func (f *Flow) Submit(ctx context.Context) (*Receipt, error) {
	if err := f.Authorize(ctx); err != nil {
		return nil, err
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.metrics.ObserveCheckout("empty")
		return nil, ErrEmptyCart
	}
	total := f.cart.TotalPrice()

	if err := f.cart.Clear(ctx); err != nil {
		var warn *cart.WriteWarning
		if !errors.As(err, &warn) {
			f.metrics.ObserveCheckout("error")
			return nil, fmt.Errorf("checkout: clear cart: %w", err)
		}
		f.logger.Warn("purchase completed but cart record not cleared durably", "error", warn)
	}

	f.metrics.ObserveCheckout("ok")
	f.logger.Info("purchase completed", "items", len(items), "total", total.String())
	return &Receipt{
		Message:        purchaseMessage,
		Total:          total,
		ItemsPurchased: len(items),
		ReturnTo:       f.homePage,
	}, nil
}
