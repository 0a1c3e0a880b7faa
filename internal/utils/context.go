// Package utils provides small helpers shared by the field client and the
// ingest server: typed context keys, JSON response writing, the resty client
// wrapper and operation id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

var (
	// OperationIDCtxKey carries the id of the queued operation being
	// delivered. The HTTP submitter sends it as the Idempotency-Key header.
	OperationIDCtxKey = contextKey("operationID")

	// TraceIDCtxKey carries the request trace id set by the trace-id
	// middleware.
	TraceIDCtxKey = contextKey("traceID")
)

// WithOperationID returns a copy of ctx carrying id.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OperationIDCtxKey, id)
}

// GetOperationIDFromContext retrieves the operation id stored by
// WithOperationID. ok is false when the value is missing, empty or of an
// unexpected type.
func GetOperationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OperationIDCtxKey).(string)
	return id, ok && id != ""
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}

// GetTraceIDFromContext retrieves the trace id stored by WithTraceID.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}
