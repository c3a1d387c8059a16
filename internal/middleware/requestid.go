// Package middleware provides the HTTP middleware used by the API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type contextKey int

const requestIDKey contextKey = iota

// RequestID tags every request with an id, reusing the client's X-Request-ID
// header when present and generating a UUID otherwise. The id is echoed on
// the response and carried in the request context, where RequestLogger picks
// it up so handler log lines can be correlated with the response a client saw.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), requestIDKey, id),
		))
	})
}

// RequestIDFrom returns the request id carried by ctx, or "" when the request
// did not pass through RequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLogger returns base annotated with the request id in ctx. Handlers
// log through it so every line they emit names the id echoed to the client.
func RequestLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return base.With("request_id", id)
	}
	return base
}
