package web

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat-assistant-backend/internal/infra/logging"
	"chat-assistant-backend/internal/infra/metrics"
	red "chat-assistant-backend/internal/infra/redis"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with a trace id, logs it and records
// request metrics keyed by the chi route pattern.
func requestLogger(log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logging.WithTraceID(r.Context(), uuid.NewString())

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)
			metrics.ObserveHTTPRequest(route, rec.status, elapsed.Milliseconds())
			logging.With(ctx, log).Info().
				Str("method", r.Method).
				Str("route", route).
				Int("status", rec.status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}

// rateLimit throttles provider-backed routes per client IP.
func rateLimit(limiter *red.RateLimiter, limit int, window time.Duration, log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			key := red.ClientRouteKey(host, r.URL.Path)
			ok, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				// Redis trouble must not take the API down.
				log.Warn().Err(err).Msg("rate limiter unavailable; allowing request")
				ok = true
			}
			if !ok {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
