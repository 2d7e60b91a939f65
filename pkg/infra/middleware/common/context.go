// Package common provides shared utilities for middleware packages.
package common

import (
	"context"

	"github.com/kart-io/support-assistant/pkg/id"
)

// HeaderXRequestID is the header name for request ID.
const HeaderXRequestID = "X-Request-ID"

// RequestIDKey is the context key type for request ID.
type RequestIDKey struct{}

// GetRequestID returns the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, requestID)
}

// GenerateRequestID returns a new time-sortable ULID.
func GenerateRequestID() string {
	return id.NewULID()
}
