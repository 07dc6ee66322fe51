package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

// Generate returns a fresh request ID.
func Generate() string {
	return uuid.NewString()
}

// ToContext binds a request ID to the context.
func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// FromContext returns the request ID bound to the context, or an empty
// string when there is none.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(contextKey{}).(string); ok {
		return requestID
	}
	return ""
}

// FromContextPtr is the response-payload variant: nil when no request ID
// is bound, so an omitempty field marshals as absent.
func FromContextPtr(ctx context.Context) *string {
	if requestID, ok := ctx.Value(contextKey{}).(string); ok {
		return &requestID
	}
	return nil
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}
