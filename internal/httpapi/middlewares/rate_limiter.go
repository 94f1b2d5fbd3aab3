package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// RateLimitingMiddleware rejects requests with 429 once the shared token
// bucket is empty. rejected may be nil.
func RateLimitingMiddleware(limiter *rate.Limiter, rejected prometheus.Counter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if rejected != nil {
					rejected.Inc()
				}
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
