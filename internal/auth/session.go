// Package auth manages the session flags the external auth provider sets
// and the storefront reads: login state, the signed-in username, and the
// one-shot just-registered marker. There is no credential handling here.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/chesser-academy/storefront/internal/storage"
	"github.com/chesser-academy/storefront/pkg/logging"
)

const (
	keyIsLoggedIn     = "isLoggedIn"
	keyLoggedInUser   = "loggedInUser"
	keyJustRegistered = "justRegistered"
)

// Pages are the navigation targets used for gating and post-login routing.
type Pages struct {
	Login    string
	Checkout string
	Services string
	Home     string
}

// Sessions reads and writes the per-visitor session flags.
type Sessions struct {
	store  storage.Session
	pages  Pages
	logger *logging.Logger
}

// NewSessions creates a flag manager over the visitor's session scope.
func NewSessions(store storage.Session, pages Pages, logger *logging.Logger) *Sessions {
	if store == nil {
		panic("auth: session storage required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sessions{store: store, pages: pages, logger: logger}
}

// IsLoggedIn reports whether the visitor has an active session.
func (s *Sessions) IsLoggedIn(ctx context.Context) bool {
	value, err := s.store.Get(ctx, keyIsLoggedIn)
	return err == nil && value == "true"
}

// Username returns the signed-in display name, empty when logged out.
func (s *Sessions) Username(ctx context.Context) string {
	value, err := s.store.Get(ctx, keyLoggedInUser)
	if err != nil {
		return ""
	}
	return value
}

// Login records an active session for the given username.
func (s *Sessions) Login(ctx context.Context, username string) error {
	if username == "" {
		return errors.New("auth: username required")
	}
	if err := s.store.Set(ctx, keyIsLoggedIn, "true"); err != nil {
		return fmt.Errorf("auth: set login flag: %w", err)
	}
	if err := s.store.Set(ctx, keyLoggedInUser, username); err != nil {
		return fmt.Errorf("auth: set username: %w", err)
	}
	s.logger.Info("visitor logged in", "username", username)
	return nil
}

// Logout clears the whole session scope. Cart clearing is the caller's job.
func (s *Sessions) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("auth: clear session: %w", err)
	}
	s.logger.Info("visitor logged out")
	return nil
}

// MarkJustRegistered sets the one-shot registration marker.
func (s *Sessions) MarkJustRegistered(ctx context.Context) error {
	if err := s.store.Set(ctx, keyJustRegistered, "true"); err != nil {
		return fmt.Errorf("auth: set just-registered flag: %w", err)
	}
	return nil
}

// ConsumeJustRegistered reports and clears the registration marker in one
// step, so it routes exactly one navigation.
func (s *Sessions) ConsumeJustRegistered(ctx context.Context) bool {
	value, err := s.store.Get(ctx, keyJustRegistered)
	if err != nil || value != "true" {
		return false
	}
	if err := s.store.Delete(ctx, keyJustRegistered); err != nil {
		s.logger.Warn("failed to clear just-registered flag", "error", err)
	}
	return true
}

// PostLoginDestination decides where a fresh login should land: new
// registrants go to the services page, returning users to their original
// target (the redirect query parameter) or the home page.
func (s *Sessions) PostLoginDestination(ctx context.Context, redirectParam string) string {
	if s.ConsumeJustRegistered(ctx) {
		return s.pages.Services
	}
	if redirectParam != "" {
		return redirectParam
	}
	return s.pages.Home
}

// LoginRedirect builds the login URL that returns to the given page after
// authentication.
func (s *Sessions) LoginRedirect(returnTo string) string {
	return s.pages.Login + "?redirect=" + url.QueryEscape(returnTo)
}

// CheckoutRedirect is the login URL used when checkout is gated.
func (s *Sessions) CheckoutRedirect() string {
	return s.LoginRedirect(s.pages.Checkout)
}
