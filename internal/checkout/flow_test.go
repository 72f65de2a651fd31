package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/chesser-academy/storefront/internal/auth"
	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/internal/catalog"
	"github.com/chesser-academy/storefront/internal/storage"
	"github.com/chesser-academy/storefront/pkg/logging"
)

func newTestFlow(t *testing.T) (*Flow, *cart.Store, *auth.Sessions) {
	t.Helper()
	logger := logging.Default()
	cartStore := cart.NewStore(storage.NewMemory(), "cart:test", logger, nil)
	sessions := auth.NewSessions(storage.NewMemory(), auth.Pages{
		Login:    "login.html",
		Checkout: "checkout.html",
		Services: "services.html",
		Home:     "index.html",
	}, logger)
	return NewFlow(cartStore, sessions, "index.html", logger, nil), cartStore, sessions
}

func addGroupConditioning(t *testing.T, cartStore *cart.Store) {
	t.Helper()
	err := cartStore.Add(context.Background(), cart.AddRequest{
		ServiceID:       "group-conditioning",
		Name:            "Group Conditioning",
		Price:           6000,
		Kind:            catalog.KindGroup,
		SessionsPerWeek: 1,
		Sessions:        []cart.SessionPick{{Day: "Tuesday", Time: "10am-12pm"}},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestAuthorizeDeniesLoggedOutVisitor(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	err := flow.Authorize(context.Background())
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.RedirectTo != "login.html?redirect=checkout.html" {
		t.Fatalf("unexpected redirect %q", denied.RedirectTo)
	}
}

func TestAuthorizeAllowsActiveSession(t *testing.T) {
	flow, _, sessions := newTestFlow(t)
	ctx := context.Background()

	if err := sessions.Login(ctx, "magnus"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := flow.Authorize(ctx); err != nil {
		t.Fatalf("expected access, got %v", err)
	}
}

func TestSummaryRequiresSessionAndReflectsCart(t *testing.T) {
	flow, cartStore, sessions := newTestFlow(t)
	ctx := context.Background()

	_, err := flow.Summary(ctx)
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}

	_ = sessions.Login(ctx, "magnus")
	summary, err := flow.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Items) != 0 || summary.Total != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}

	addGroupConditioning(t, cartStore)
	summary, err = flow.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Items) != 1 || summary.Total != 6000 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	flow, _, sessions := newTestFlow(t)
	ctx := context.Background()
	_ = sessions.Login(ctx, "magnus")

	if _, err := flow.Submit(ctx); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSubmitRequiresSession(t *testing.T) {
	flow, cartStore, _ := newTestFlow(t)
	addGroupConditioning(t, cartStore)

	_, err := flow.Submit(context.Background())
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if cartStore.Count() != 1 {
		t.Fatalf("denied checkout must not touch the cart, count=%d", cartStore.Count())
	}
}

func TestSubmitClearsCartAndReturnsReceipt(t *testing.T) {
	flow, cartStore, sessions := newTestFlow(t)
	ctx := context.Background()
	_ = sessions.Login(ctx, "magnus")
	addGroupConditioning(t, cartStore)

	receipt, err := flow.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Message != "Thank you for your purchase! Your training begins now." {
		t.Fatalf("unexpected message %q", receipt.Message)
	}
	if receipt.Total != 6000 || receipt.ItemsPurchased != 1 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if receipt.ReturnTo != "index.html" {
		t.Fatalf("unexpected return page %q", receipt.ReturnTo)
	}
	if cartStore.Count() != 0 {
		t.Fatalf("expected cart cleared, count=%d", cartStore.Count())
	}

	// A second submission finds the cart empty again.
	if _, err := flow.Submit(ctx); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart on resubmit, got %v", err)
	}
}
