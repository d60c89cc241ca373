package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomargood/weather-dashboardv2/internal/metrics"
)

// statusRecorder captures the response code for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics counts every request by route, method and status code.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequestsTotal.
			WithLabelValues(routeLabel(r.URL.Path), r.Method, strconv.Itoa(rec.status)).
			Inc()
	})
}

// routeLabel collapses archive paths so the metric stays low
// cardinality.
func routeLabel(path string) string {
	switch path {
	case "/", "/healthz", "/metrics", "/station", "/refresh", "/quit", "/panel.png":
		return path
	}
	if strings.HasPrefix(path, "/files/") {
		return "/files/"
	}
	return "other"
}
