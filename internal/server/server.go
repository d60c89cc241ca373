// Package server exposes the operator surface: the status page, the
// station and refresh controls, archived cycle artifacts, health and
// metrics endpoints.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/controller"
	"github.com/tomargood/weather-dashboardv2/internal/render"
	"github.com/tomargood/weather-dashboardv2/internal/storage"
)

// Server wires the HTTP surface to the controller and the cycle
// archive.
type Server struct {
	ctrl     *controller.Controller
	store    storage.Client
	loader   *render.TemplateLoader
	panelPNG string
	framePNG string
	version  string
	quit     chan<- struct{}
	logger   zerolog.Logger
}

// Options configures a Server.
type Options struct {
	Controller *controller.Controller
	Store      storage.Client
	Loader     *render.TemplateLoader
	// PanelPNG is the spool file the panel device writes; FramePNG is
	// the renderer's working copy used as fallback when no spool
	// exists (panel mode off).
	PanelPNG string
	FramePNG string
	Version  string
	// Quit receives a signal when an operator posts /quit.
	Quit   chan<- struct{}
	Logger zerolog.Logger
}

// New creates a server instance.
func New(opts Options) *Server {
	return &Server{
		ctrl:     opts.Controller,
		store:    opts.Store,
		loader:   opts.Loader,
		panelPNG: opts.PanelPNG,
		framePNG: opts.FramePNG,
		version:  opts.Version,
		quit:     opts.Quit,
		logger:   opts.Logger,
	}
}

// Handler builds the route table. Specific routes first, the status
// page catches the root.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/station", s.handleStation)
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/quit", s.handleQuit)
	mux.HandleFunc("/files/", s.handleFiles)
	mux.HandleFunc("/panel.png", s.handlePanel)
	mux.HandleFunc("/", s.handleStatusPage)

	return s.withMetrics(mux)
}
