package server

import "context"

// contextKey keeps request-scoped values from colliding with keys set
// by other packages sharing the same context.
type contextKey string

const (
	contextKeyRequestID  contextKey = "requestID"
	contextKeyAPIVersion contextKey = "apiVersion"
)

// requestIDFrom returns the request ID stored by the middleware chain,
// or the empty string when the request never passed through it.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
