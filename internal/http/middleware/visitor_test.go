package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chesser-academy/storefront/internal/visitor"
)

func TestVisitorUsesHeaderID(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = visitor.IDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Visitor-Id", "visitor-123")
	rec := httptest.NewRecorder()

	Visitor(handler).ServeHTTP(rec, req)

	if got != "visitor-123" {
		t.Fatalf("expected header visitor id, got %q", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie when header present")
	}
}

func TestVisitorUsesCookieID(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = visitor.IDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_visitor", Value: "visitor-456"})
	rec := httptest.NewRecorder()

	Visitor(handler).ServeHTTP(rec, req)

	if got != "visitor-456" {
		t.Fatalf("expected cookie visitor id, got %q", got)
	}
}

func TestVisitorMintsIDForNewBrowser(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = visitor.IDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()

	Visitor(handler).ServeHTTP(rec, req)

	if got == "" {
		t.Fatalf("expected a minted visitor id")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "storefront_visitor" || cookies[0].Value != got {
		t.Fatalf("expected visitor cookie matching context id, got %+v", cookies)
	}
}
