package server

import (
	"context"
	"net/http"
	"time"

	"drawbridge/internal/config"
	"drawbridge/pkg/logging"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type contextKey string

// requestIDKey carries the request ID through the handler chain.
const requestIDKey contextKey = "request-id"

// requestIDHeader is honored on ingress and always set on egress.
const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID, reusing an inbound X-Request-ID
// when the caller already has one. It should be the first middleware in
// the chain so every log line and response carries the ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// AccessLog records one line per request after it completes. Kept at
// debug level so production logs stay quiet unless asked.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Debug("Gateway", "%s %s -> %d (%d bytes, %s, request %s)",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Millisecond), GetRequestID(r.Context()))
	})
}

// Recoverer converts handler panics into 500 responses so one broken
// request cannot take down the listener.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Error("Gateway", nil, "Panic while handling %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Inflight tracks the number of requests currently being handled.
func Inflight(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.inflightRequests.Inc()
			defer m.inflightRequests.Dec()
			next.ServeHTTP(w, r)
		})
	}
}

// newRouteLimiter builds the token bucket for a route, or nil when the
// route carries no limit.
func newRouteLimiter(route config.RouteConfig) *rate.Limiter {
	if route.RateLimit <= 0 {
		return nil
	}
	burst := route.RateBurst
	if burst <= 0 {
		burst = int(route.RateLimit)
		if burst < 1 {
			burst = 1
		}
	}
	return rate.NewLimiter(rate.Limit(route.RateLimit), burst)
}

// RouteRateLimit applies a token-bucket limit to one route. A nil
// limiter disables limiting for the route.
func RouteRateLimit(routeName string, limiter *rate.Limiter, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				m.ObserveRateLimited(routeName)
				logging.Warn("Gateway", "Route %s: rate limit exceeded for %s", routeName, r.RemoteAddr)
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
