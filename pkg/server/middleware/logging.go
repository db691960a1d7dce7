package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RequestObserver receives one call per completed request.
type RequestObserver interface {
	RecordHTTPRequest(path, code string, duration time.Duration)
}

// unmatchedRoute labels requests no route matched, keeping metric labels bounded.
const unmatchedRoute = "unmatched"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logging logs each request on completion and reports it to observer, which
// may be nil. Metrics are labelled by the matched route pattern.
func Logging(logger *slog.Logger, observer RequestObserver) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// The mux records the matched pattern on the request it is given.
			inner := r.WithContext(r.Context())
			next.ServeHTTP(rw, inner)

			latency := time.Since(start)
			route := inner.Pattern
			if route == "" {
				route = unmatchedRoute
			}

			level := slog.LevelInfo
			switch {
			case rw.statusCode >= 500:
				level = slog.LevelError
			case rw.statusCode >= 400:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", rw.statusCode,
				"latency_ms", latency.Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)

			if observer != nil {
				observer.RecordHTTPRequest(route, strconv.Itoa(rw.statusCode), latency)
			}
		})
	}
}
