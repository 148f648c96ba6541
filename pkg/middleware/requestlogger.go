package middleware

import (
	"log/slog"
	"net/http"

	"github.com/leonardoazeredo/ecomm-poc/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, cart_id, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// This middleware should be mounted AFTER RequestLogging (which sets
// correlation_id) and Tracing (which sets the OpenTelemetry span context).
// The cart cookie name is passed in so this package stays decoupled from the
// session package.
func RequestLogger(base *slog.Logger, cartCookie string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Attach the session cart ID when the browser already carries one.
			// Rendering paths never create the cookie, so absence is normal.
			if c, err := r.Cookie(cartCookie); err == nil && c.Value != "" {
				ctx = logger.WithCartID(ctx, c.Value)
			}

			enriched := logger.WithContext(ctx, base)

			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
