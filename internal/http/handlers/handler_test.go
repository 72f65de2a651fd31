package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/chesser-academy/storefront/internal/auth"
	"github.com/chesser-academy/storefront/internal/catalog"
	"github.com/chesser-academy/storefront/internal/storage"
	"github.com/chesser-academy/storefront/internal/visitor"
	"github.com/chesser-academy/storefront/pkg/logging"
)

func testPages() auth.Pages {
	return auth.Pages{
		Login:    "login.html",
		Checkout: "checkout.html",
		Services: "services.html",
		Home:     "index.html",
	}
}

func newTestHandler(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	logger := logging.Default()
	registry := NewRegistry(storage.NewMemory(), testPages(), logger, nil)
	h := NewHandler(registry, catalog.Default(), 0, logger)

	r := chi.NewRouter()
	r.Get("/api/services", h.ListServices)
	r.Get("/api/cart", h.GetCart)
	r.Post("/api/cart/items", h.AddCartItem)
	r.Delete("/api/cart/items/{uniqueID}", h.RemoveCartItem)
	r.Get("/api/selection", h.GetSelection)
	r.Post("/api/selection/open", h.OpenSelection)
	r.Post("/api/selection/cancel", h.CancelSelection)
	r.Post("/api/selection/days", h.ToggleSelectionDay)
	r.Post("/api/selection/times", h.SetSelectionTime)
	r.Post("/api/selection/confirm", h.ConfirmSelection)
	r.Get("/api/session", h.GetSession)
	r.Post("/api/session/login", h.Login)
	r.Post("/api/session/register", h.Register)
	r.Post("/api/session/logout", h.Logout)
	r.Get("/api/views", h.GetViews)
	r.Get("/api/checkout", h.GetCheckout)
	r.Post("/api/checkout/submit", h.SubmitCheckout)
	return h, r
}

func doJSON(t *testing.T, r http.Handler, method, path, visitorID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(visitor.WithID(req.Context(), visitorID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestListServices(t *testing.T) {
	_, r := newTestHandler(t)

	rec := doJSON(t, r, http.MethodGet, "/api/services", "v1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[ListServicesResponse](t, rec)
	if len(resp.Services) != 4 {
		t.Fatalf("expected 4 services, got %d", len(resp.Services))
	}
	first := resp.Services[0]
	if first.ID != "boxing-basics" || first.Price != "$120.00" || first.Kind != "Private" {
		t.Fatalf("unexpected first service %+v", first)
	}
	if len(first.Days) != 5 || len(first.Times) != 3 {
		t.Fatalf("expected schedule options, got %+v", first)
	}
	if resp.AddedLabelResetMS != 1500 {
		t.Fatalf("expected default added-label reset, got %d", resp.AddedLabelResetMS)
	}
}

func TestSelectionFlowThroughAPI(t *testing.T) {
	_, r := newTestHandler(t)

	rec := doJSON(t, r, http.MethodPost, "/api/selection/open", "v1", map[string]string{"service_id": "boxing-basics"})
	if rec.Code != http.StatusOK {
		t.Fatalf("open: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decode[SelectionState](t, rec)
	if !state.Open || state.DaysRequired != 2 {
		t.Fatalf("unexpected state after open %+v", state)
	}

	doJSON(t, r, http.MethodPost, "/api/selection/days", "v1", map[string]string{"day": "Monday"})
	rec = doJSON(t, r, http.MethodPost, "/api/selection/days", "v1", map[string]string{"day": "Wednesday"})
	state = decode[SelectionState](t, rec)
	if len(state.SelectedDays) != 2 || len(state.PendingDays) != 2 {
		t.Fatalf("unexpected state after days %+v", state)
	}

	// Third day is over the weekly count.
	rec = doJSON(t, r, http.MethodPost, "/api/selection/days", "v1", map[string]string{"day": "Tuesday"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on over-cap day, got %d", rec.Code)
	}
	errResp := decode[errorResponse](t, rec)
	if len(errResp.Messages) != 1 || errResp.Messages[0] != "Please select only 2 day(s)." {
		t.Fatalf("unexpected messages %v", errResp.Messages)
	}

	// Confirm without times reports each missing day.
	rec = doJSON(t, r, http.MethodPost, "/api/selection/confirm", "v1", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on incomplete confirm, got %d", rec.Code)
	}
	errResp = decode[errorResponse](t, rec)
	if len(errResp.Messages) != 2 {
		t.Fatalf("expected two missing-time messages, got %v", errResp.Messages)
	}

	doJSON(t, r, http.MethodPost, "/api/selection/times", "v1", map[string]string{"day": "Monday", "time": "4pm-6pm"})
	doJSON(t, r, http.MethodPost, "/api/selection/times", "v1", map[string]string{"day": "Wednesday", "time": "6pm-8pm"})
	rec = doJSON(t, r, http.MethodPost, "/api/selection/confirm", "v1", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on confirm, got %d: %s", rec.Code, rec.Body.String())
	}
	confirmed := decode[ConfirmSelectionResponse](t, rec)
	if confirmed.Entry == nil || confirmed.Entry.Name != "Boxing Basics" {
		t.Fatalf("unexpected entry %+v", confirmed.Entry)
	}
	if confirmed.Cart.Count != 1 || confirmed.Cart.Total != 12000 {
		t.Fatalf("unexpected cart %+v", confirmed.Cart)
	}

	// Picker is closed again.
	rec = doJSON(t, r, http.MethodGet, "/api/selection", "v1", nil)
	state = decode[SelectionState](t, rec)
	if state.Open {
		t.Fatalf("expected picker closed after confirm")
	}
}

func TestDuplicateSelectionConflicts(t *testing.T) {
	_, r := newTestHandler(t)

	configure := func() *httptest.ResponseRecorder {
		doJSON(t, r, http.MethodPost, "/api/selection/open", "v1", map[string]string{"service_id": "group-conditioning"})
		doJSON(t, r, http.MethodPost, "/api/selection/days", "v1", map[string]string{"day": "Tuesday"})
		doJSON(t, r, http.MethodPost, "/api/selection/times", "v1", map[string]string{"day": "Tuesday", "time": "10am-12pm"})
		return doJSON(t, r, http.MethodPost, "/api/selection/confirm", "v1", nil)
	}

	if rec := configure(); rec.Code != http.StatusCreated {
		t.Fatalf("first confirm: expected 201, got %d", rec.Code)
	}
	rec := configure()
	if rec.Code != http.StatusConflict {
		t.Fatalf("second confirm: expected 409, got %d", rec.Code)
	}
	errResp := decode[errorResponse](t, rec)
	if errResp.Error != "Group Conditioning is already in your cart." {
		t.Fatalf("unexpected error %q", errResp.Error)
	}
}

func TestCartAddAndRemove(t *testing.T) {
	_, r := newTestHandler(t)

	rec := doJSON(t, r, http.MethodPost, "/api/cart/items", "v1", map[string]any{
		"name":            "Group Conditioning",
		"price":           60.0,
		"serviceKind":     "Group",
		"sessionsPerWeek": 1,
		"sessions":        []map[string]string{{"day": "Tuesday", "time": "10am-12pm"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	added := decode[CartResponse](t, rec)
	if added.Count != 1 || added.Total != 6000 {
		t.Fatalf("unexpected cart %+v", added)
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/cart/items/"+added.Items[0].UniqueID, "v1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	removed := decode[CartResponse](t, rec)
	if removed.Count != 0 {
		t.Fatalf("expected empty cart, got %+v", removed)
	}
}

func TestVisitorsAreIsolated(t *testing.T) {
	_, r := newTestHandler(t)

	doJSON(t, r, http.MethodPost, "/api/selection/open", "alice", map[string]string{"service_id": "group-conditioning"})
	doJSON(t, r, http.MethodPost, "/api/selection/days", "alice", map[string]string{"day": "Tuesday"})
	doJSON(t, r, http.MethodPost, "/api/selection/times", "alice", map[string]string{"day": "Tuesday", "time": "10am-12pm"})
	doJSON(t, r, http.MethodPost, "/api/selection/confirm", "alice", nil)

	aliceCart := decode[CartResponse](t, doJSON(t, r, http.MethodGet, "/api/cart", "alice", nil))
	bobCart := decode[CartResponse](t, doJSON(t, r, http.MethodGet, "/api/cart", "bob", nil))
	if aliceCart.Count != 1 || bobCart.Count != 0 {
		t.Fatalf("expected isolated carts, alice=%d bob=%d", aliceCart.Count, bobCart.Count)
	}

	bobSelection := decode[SelectionState](t, doJSON(t, r, http.MethodGet, "/api/selection", "bob", nil))
	if bobSelection.Open {
		t.Fatalf("expected bob's picker untouched by alice")
	}
}

func TestLoginRoutesByRedirectAndRegistration(t *testing.T) {
	_, r := newTestHandler(t)

	rec := doJSON(t, r, http.MethodPost, "/api/session/login", "v1", map[string]string{"username": "magnus", "redirect": "checkout.html"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	login := decode[LoginResponse](t, rec)
	if login.Destination != "checkout.html" {
		t.Fatalf("expected redirect destination, got %q", login.Destination)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/session/register", "v2", map[string]string{"username": "judit"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	reg := decode[LoginResponse](t, rec)
	if reg.Destination != "services.html" {
		t.Fatalf("expected services destination for fresh registrant, got %q", reg.Destination)
	}

	// The just-registered marker was consumed; a plain login goes home.
	rec = doJSON(t, r, http.MethodPost, "/api/session/login", "v2", map[string]string{"username": "judit"})
	if dest := decode[LoginResponse](t, rec).Destination; dest != "index.html" {
		t.Fatalf("expected home destination, got %q", dest)
	}
}

func TestLogoutClearsSessionAndCart(t *testing.T) {
	logger := logging.Default()
	durable := storage.NewMemory()
	registry := NewRegistry(durable, testPages(), logger, nil)
	h := NewHandler(registry, catalog.Default(), 0, logger)
	r := chi.NewRouter()
	r.Get("/api/cart", h.GetCart)
	r.Post("/api/cart/items", h.AddCartItem)
	r.Get("/api/session", h.GetSession)
	r.Post("/api/session/login", h.Login)
	r.Post("/api/session/logout", h.Logout)

	doJSON(t, r, http.MethodPost, "/api/session/login", "v1", map[string]string{"username": "magnus"})
	doJSON(t, r, http.MethodPost, "/api/cart/items", "v1", map[string]any{
		"name":            "Group Conditioning",
		"price":           60.0,
		"serviceKind":     "Group",
		"sessionsPerWeek": 1,
		"sessions":        []map[string]string{{"day": "Tuesday", "time": "10am-12pm"}},
	})

	rec := doJSON(t, r, http.MethodPost, "/api/session/logout", "v1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	session := decode[SessionResponse](t, doJSON(t, r, http.MethodGet, "/api/session", "v1", nil))
	if session.LoggedIn {
		t.Fatalf("expected logged out")
	}
	cartResp := decode[CartResponse](t, doJSON(t, r, http.MethodGet, "/api/cart", "v1", nil))
	if cartResp.Count != 0 {
		t.Fatalf("expected cart cleared on logout, got %+v", cartResp)
	}

	// The empty record is persisted, not just dropped from memory.
	raw, err := durable.Get(context.Background(), "cart:v1")
	if err != nil {
		t.Fatalf("expected persisted record: %v", err)
	}
	if raw != "[]" {
		t.Fatalf("expected empty persisted record, got %q", raw)
	}
}

func TestCheckoutGatingAndSubmit(t *testing.T) {
	_, r := newTestHandler(t)

	rec := doJSON(t, r, http.MethodGet, "/api/checkout", "v1", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for logged-out visitor, got %d", rec.Code)
	}
	errResp := decode[errorResponse](t, rec)
	if errResp.Redirect != "login.html?redirect=checkout.html" {
		t.Fatalf("unexpected redirect %q", errResp.Redirect)
	}

	doJSON(t, r, http.MethodPost, "/api/session/login", "v1", map[string]string{"username": "magnus"})

	rec = doJSON(t, r, http.MethodPost, "/api/checkout/submit", "v1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty cart, got %d", rec.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/cart/items", "v1", map[string]any{
		"name":            "Group Conditioning",
		"price":           60.0,
		"serviceKind":     "Group",
		"sessionsPerWeek": 1,
		"sessions":        []map[string]string{{"day": "Tuesday", "time": "10am-12pm"}},
	})
	rec = doJSON(t, r, http.MethodGet, "/api/checkout", "v1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := decode[CheckoutPageResponse](t, rec)
	if !page.Summary.ShowPaymentForm || page.Summary.Total != "$60.00" {
		t.Fatalf("unexpected summary %+v", page.Summary)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/checkout/submit", "v1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	receipt := decode[map[string]any](t, rec)
	if receipt["message"] != "Thank you for your purchase! Your training begins now." {
		t.Fatalf("unexpected receipt %v", receipt)
	}

	cartResp := decode[CartResponse](t, doJSON(t, r, http.MethodGet, "/api/cart", "v1", nil))
	if cartResp.Count != 0 {
		t.Fatalf("expected cart cleared after purchase, got %+v", cartResp)
	}
}

func TestCartSurvivesRegistryRebuild(t *testing.T) {
	logger := logging.Default()
	durable := storage.NewMemory()

	registry := NewRegistry(durable, testPages(), logger, nil)
	h := NewHandler(registry, catalog.Default(), 0, logger)
	r := chi.NewRouter()
	r.Post("/api/cart/items", h.AddCartItem)
	doJSON(t, r, http.MethodPost, "/api/cart/items", "v1", map[string]any{
		"name":            "Group Conditioning",
		"price":           60.0,
		"serviceKind":     "Group",
		"sessionsPerWeek": 1,
		"sessions":        []map[string]string{{"day": "Tuesday", "time": "10am-12pm"}},
	})

	// A fresh registry over the same durable store sees the cart again.
	registry2 := NewRegistry(durable, testPages(), logger, nil)
	h2 := NewHandler(registry2, catalog.Default(), 0, logger)
	r2 := chi.NewRouter()
	r2.Get("/api/cart", h2.GetCart)
	cartResp := decode[CartResponse](t, doJSON(t, r2, http.MethodGet, "/api/cart", "v1", nil))
	if cartResp.Count != 1 || cartResp.Total != 6000 {
		t.Fatalf("expected cart hydrated from durable store, got %+v", cartResp)
	}
}
