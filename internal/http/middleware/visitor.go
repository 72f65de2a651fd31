package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/chesser-academy/storefront/internal/visitor"
)

const (
	visitorHeader = "X-Visitor-Id"
	visitorCookie = "storefront_visitor"
)

// Visitor resolves the browser's visitor id so every request lands in the
// right state universe. The id comes from the X-Visitor-Id header or the
// visitor cookie; first-time visitors get a fresh id set as a cookie.
func Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visitorID := strings.TrimSpace(r.Header.Get(visitorHeader))
		if visitorID == "" {
			if c, err := r.Cookie(visitorCookie); err == nil {
				visitorID = strings.TrimSpace(c.Value)
			}
		}
		if visitorID == "" {
			visitorID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     visitorCookie,
				Value:    visitorID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := visitor.WithID(r.Context(), visitorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
