package visitor

import "context"

type ctxKey string

const visitorKey ctxKey = "storefront.visitor_id"

// WithID stores the visitor id in context.
func WithID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorKey, visitorID)
}

// IDFromContext extracts the visitor id if present.
func IDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(visitorKey)
	if val == nil {
		return "", false
	}
	visitorID, ok := val.(string)
	return visitorID, ok && visitorID != ""
}
