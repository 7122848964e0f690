package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"

	applog "github.com/ehmtravel/backoffice/pkg/logger"
)

// sensitiveHeaders are filtered from request logs.
var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"x-api-key",
}

func Logging(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			// downstream handlers pick this up via logger.From
			ctx := applog.With(r.Context(), "request_id", reqID)

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.status
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"headers", filterHeaders(r.Header),
			)
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

func filterHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		lower := strings.ToLower(name)
		filtered := false
		for _, s := range sensitiveHeaders {
			if lower == s {
				filtered = true
				break
			}
		}
		if filtered {
			out[name] = "[FILTERED]"
		} else {
			out[name] = strings.Join(values, ",")
		}
	}
	return out
}
