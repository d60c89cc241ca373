package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics that are exposed by the application.

// Outcome labels recorded on CyclesTotal.
const (
	ResultDisplayed = "displayed"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)

// CyclesTotal counts completed update cycles, partitioned by outcome.
var CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wxdash_update_cycles_total",
	Help: "Total number of update cycles by outcome.",
}, []string{"result"})

// FetchDuration tracks how long the AVWX round trip takes per cycle.
var FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "wxdash_fetch_duration_seconds",
	Help:    "Time spent fetching METAR, station and TAF data.",
	Buckets: prometheus.DefBuckets,
})

// RenderDuration tracks the HTML render plus screenshot step per cycle.
var RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "wxdash_render_duration_seconds",
	Help:    "Time spent rendering the dashboard frame.",
	Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
})

// PanelRefreshes counts frames physically pushed to the e-paper panel.
var PanelRefreshes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "wxdash_panel_refreshes_total",
	Help: "Total number of frames pushed to the panel.",
})

// PanelClears counts whole-panel clear operations.
var PanelClears = promauto.NewCounter(prometheus.CounterOpts{
	Name: "wxdash_panel_clears_total",
	Help: "Total number of panel clear operations.",
})

// HTTPRequestsTotal tracks operator surface requests by path, method and code.
var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wxdash_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})
