package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jonwraymond/healthprobe/errreport"
	"github.com/jonwraymond/healthprobe/observe"
)

// requestLogger logs one line per request. Health and probe traffic is
// logged at debug so load balancer polling does not flood the log.
func requestLogger(logger observe.Logger, reportPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []observe.Field{
				{Key: "method", Value: r.Method},
				{Key: "path", Value: r.URL.Path},
				{Key: "status_code", Value: status},
				{Key: "bytes", Value: ww.BytesWritten()},
				{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
				{Key: "request_id", Value: middleware.GetReqID(r.Context())},
				{Key: "remote_addr", Value: r.RemoteAddr},
			}

			switch {
			case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
				logger.Error(r.Context(), "http request", fields...)
			case isProbePath(r.URL.Path, reportPath):
				logger.Debug(r.Context(), "http request", fields...)
			default:
				logger.Info(r.Context(), "http request", fields...)
			}
		})
	}
}

func isProbePath(path, reportPath string) bool {
	return path == reportPath || path == "/healthz" || path == errreport.ReadinessPath || strings.HasPrefix(path, "/metrics")
}
