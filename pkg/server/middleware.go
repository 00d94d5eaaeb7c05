package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	emperrors "github.com/wattline/emporia/pkg/errors"
)

const headerRequestID = "X-Request-Id"

// withMiddleware wraps a route handler in the standard middleware
// stack. The slice lists middleware innermost first, so the last entry
// ends up outermost: metrics observe every request, including those
// the rate limiter rejects, and recovery sits outside the handler so a
// panic still produces a 500 with the usual error envelope.
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	for _, mw := range []func(http.HandlerFunc) http.HandlerFunc{
		s.loggingMiddleware,
		s.rateLimitMiddleware,
		s.panicRecoveryMiddleware,
		s.requestIDMiddleware,
		s.versionMiddleware,
		s.metricsMiddleware,
	} {
		handler = mw(handler)
	}
	return handler
}

// versionMiddleware negotiates the API version from the Accept header,
// advertises it back to the client, and exposes it to handlers via the
// request context.
func (s *Server) versionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		SetAPIVersionHeader(w, version)
		ctx := context.WithValue(r.Context(), contextKeyAPIVersion, version)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requestIDMiddleware honors a caller-supplied X-Request-Id when it is
// a well-formed UUID and mints a fresh one otherwise. The ID rides the
// request context and is echoed in the response header.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		w.Header().Set(headerRequestID, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// rateLimitMiddleware enforces the server-wide token bucket. Rejected
// requests get a 429 with Retry-After; admitted requests carry the
// usual X-RateLimit-* headers.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, emperrors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": s.config.RateLimit,
					"burst": s.config.RateLimitBurst,
				})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.Tokens())))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next.ServeHTTP(w, r)
	}
}

// panicRecoveryMiddleware turns a handler panic into a 500 response so
// a single bad request cannot take down the listener.
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			panicRecoveries.Inc()
			slog.Error("panic recovered",
				"error", fmt.Sprintf("%v", v),
				"requestID", requestIDFrom(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			WriteError(w, r, http.StatusInternalServerError, emperrors.ErrCodeInternal,
				"Internal server error", true, nil)
		}()
		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware emits one debug line per completed request with
// the final status and wall-clock duration.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		slog.Debug("request handled",
			"requestID", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
