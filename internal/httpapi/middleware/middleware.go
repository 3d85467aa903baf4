package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/metrics"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var mwLogger = logger_i.NewLogger("middleware")

// Wrap returns a decorator that injects a trace ID, enforces rate limiting,
// and records request metrics around every handler it wraps.
func Wrap(limiter *RateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}

			r = injectTrace(r)

			if limiter != nil && !limiter.Allow(r.Context(), r.RemoteAddr) {
				mwLogger.Warn("rate limit exceeded", "remoteAddr", r.RemoteAddr)
				http.Error(rec, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(http.StatusTooManyRequests)).Inc()
				return
			}

			next(rec, r)
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
		}
	}
}

func injectTrace(r *http.Request) *http.Request {
	trace := r.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = uuid.New().String()
	}
	r.Header.Set("X-Trace-Id", trace)
	ctx := context.WithValue(r.Context(), config.TRACE_ID_KEY, trace)
	return r.WithContext(ctx)
}
