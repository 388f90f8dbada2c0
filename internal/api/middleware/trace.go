// Package middleware provides HTTP middleware for the API: authentication
// and trace-ID propagation.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that attaches a random trace ID to
// every request context plus a request-scoped logger carrying it, so error
// responses and log lines can be correlated.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			reqLog := log.With(
				slog.String("trace_id", shared.GetTraceID(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			ctx = logger.WithLogger(ctx, reqLog)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
