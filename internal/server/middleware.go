package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/JosMR1003/aplicacion-flotacion/pkg/log"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDFromContext returns the request id set by RequestIDMiddleware,
// or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Middleware is an http.Handler decorator.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares; the first argument runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// RequestIDMiddleware assigns each request a uuid, exposed in the context
// and on the X-Request-ID response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RecoveryMiddleware converts handler panics into a rendered 500 page.
func RecoveryMiddleware(logger log.Logger, components ComponentBuilder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recuperado", "panic", rec,
						log.PathKey, r.URL.Path,
						log.RequestIDKey, RequestIDFromContext(r.Context()))
					w.WriteHeader(http.StatusInternalServerError)
					_ = components.Error("Error interno del servidor",
						"Lo sentimos, ocurrió un error interno.").Render(r.Context(), w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs one structured line per request.
func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("solicitud atendida",
				log.MethodKey, r.Method,
				log.PathKey, r.URL.Path,
				log.StatusKey, wrapped.status,
				log.DurationKey, time.Since(start).Milliseconds(),
				log.RequestIDKey, RequestIDFromContext(r.Context()))
		})
	}
}

// RateLimitMiddleware rejects requests beyond the shared token bucket.
func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "demasiadas solicitudes", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
