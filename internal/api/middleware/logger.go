package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
)

// Logger returns a middleware that logs every request and records it in the
// HTTP metrics. Server errors are logged at error level, client errors at warn.
func Logger(log zerolog.Logger, m *metrics.Registry) func(http.Handler) http.Handler {
	// Strip CR/LF from user-supplied values to prevent log injection.
	sanitize := strings.NewReplacer("\n", "", "\r", "").Replace

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			m.RecordRequest(r.Method, wrapped.statusCode, elapsed)

			var ev *zerolog.Event
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				ev = log.Error()
			case wrapped.statusCode >= http.StatusBadRequest:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			ev.
				Str("method", sanitize(r.Method)).
				Str("path", sanitize(r.URL.Path)).
				Int("status", wrapped.statusCode).
				Dur("duration", elapsed).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}
