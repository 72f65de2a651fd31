// Package storage provides the two key-value scopes the storefront relies
// on: a durable scope that survives restarts and a session scope that lives
// and dies with a visitor's browsing session. No backend validates payloads;
// callers own malformed data.
package storage

import "context"

// Durable is key-value storage that survives process and browser restarts.
type Durable interface {
	// Get returns the stored value, or ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Session is key-value storage scoped to a single visitor session.
type Session interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear drops every key in the session scope. Used on logout.
	Clear(ctx context.Context) error
}
