// Package ctxutil carries per-request metadata through context.Context.
package ctxutil

import "context"

type ctxKey string

const requestInfoKey ctxKey = "request_info"

// RequestInfo is attached once per request by the outermost middleware.
// Handlers further down may annotate it; the access log reads it after the
// handler returns.
type RequestInfo struct {
	ID        string
	Operation string
}

// WithRequestInfo stores info in the context.
func WithRequestInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey, info)
}

// RequestInfoFromCtx returns the request info, or nil if absent.
func RequestInfoFromCtx(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(requestInfoKey).(*RequestInfo)
	return info
}

// WithRequestID stores a fresh RequestInfo carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return WithRequestInfo(ctx, &RequestInfo{ID: id})
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	if info := RequestInfoFromCtx(ctx); info != nil {
		return info.ID
	}
	return ""
}

// SetOperation records the GraphQL operation served by the request.
// It is a no-op when the context carries no RequestInfo.
func SetOperation(ctx context.Context, name string) {
	if info := RequestInfoFromCtx(ctx); info != nil {
		info.Operation = name
	}
}
