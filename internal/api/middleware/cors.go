package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows cross-origin reads from any origin. The API carries no
// credentials of its own, so no origin restriction is enforced.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", "traceparent", "tracestate"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
