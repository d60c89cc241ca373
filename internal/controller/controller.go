// Package controller runs the update cycle state machine: fetch,
// normalize, decide, render, display, archive. One worker goroutine
// executes cycles to completion; triggers from the ticker, HTTP
// handlers, stdin and the control file feed a single request channel
// and coalesce while a cycle is running.
package controller

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
	"github.com/tomargood/weather-dashboardv2/internal/config"
	"github.com/tomargood/weather-dashboardv2/internal/metrics"
	"github.com/tomargood/weather-dashboardv2/internal/panel"
	"github.com/tomargood/weather-dashboardv2/internal/storage"
	"github.com/tomargood/weather-dashboardv2/internal/wx"
)

// State names a position in the update cycle state machine.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateDeciding   State = "deciding"
	StateRendering  State = "rendering"
	StateDisplaying State = "displaying"
	StateError      State = "error"
)

// Source fetches raw weather for a station.
type Source interface {
	FetchAll(ctx context.Context, station string) (*avwx.Bundle, error)
}

// Renderer turns a snapshot into a panel frame. The path accessors
// locate the working copies for archiving.
type Renderer interface {
	Render(ctx context.Context, snap *wx.Snapshot) (image.Image, error)
	HTMLPath() string
	ImagePath() string
}

// Request asks the controller for work. The zero value is a plain
// refresh check.
type Request struct {
	Station    string        // non-empty: retarget to this station
	Force      bool          // render even when conditions are unchanged
	Interval   time.Duration // non-zero: change the tick interval
	AutoUpdate *bool         // non-nil: pause or resume the ticker
	Reason     string        // for logs: startup, tick, http, stdin, control-file
}

// CycleResult summarizes the last finished cycle for the status page.
type CycleResult struct {
	ID         string
	Station    string
	Outcome    string
	Error      string
	FinishedAt time.Time
}

// Counters accumulate cycle outcomes over the process lifetime.
type Counters struct {
	Displayed int
	Skipped   int
	Failed    int
}

// Status is a point-in-time view for the operator surface.
type Status struct {
	State      State
	Station    string
	Interval   time.Duration
	AutoUpdate bool
	Snapshot   *wx.Snapshot
	LastCycle  CycleResult
	Counters   Counters
}

// Options wires the controller's collaborators and budgets.
type Options struct {
	Source        Source
	Renderer      Renderer
	Device        panel.Device
	Store         storage.Client
	Station       string
	Interval      time.Duration
	FetchTimeout  time.Duration
	RenderTimeout time.Duration
	KeepCycles    int
	Logger        zerolog.Logger
}

// Controller owns the last displayed snapshot and the target station.
type Controller struct {
	source        Source
	renderer      Renderer
	device        panel.Device
	store         storage.Client
	fetchTimeout  time.Duration
	renderTimeout time.Duration
	keepCycles    int
	logger        zerolog.Logger

	requests chan Request
	done     chan struct{}
	stopOnce sync.Once

	mu         sync.Mutex
	state      State
	station    string
	interval   time.Duration
	autoUpdate bool
	current    *wx.Snapshot
	lastCycle  CycleResult
	counters   Counters
}

// New creates a controller; call Run to start the cycle loop.
func New(opts Options) *Controller {
	return &Controller{
		source:        opts.Source,
		renderer:      opts.Renderer,
		device:        opts.Device,
		store:         opts.Store,
		fetchTimeout:  opts.FetchTimeout,
		renderTimeout: opts.RenderTimeout,
		keepCycles:    opts.KeepCycles,
		logger:        opts.Logger,
		requests:      make(chan Request, 16),
		done:          make(chan struct{}),
		state:         StateIdle,
		station:       opts.Station,
		interval:      opts.Interval,
		autoUpdate:    true,
	}
}

// Run executes cycles until ctx is cancelled. The first cycle starts
// immediately so a freshly booted panel is never blank for a full
// interval.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.tickInterval())
	defer ticker.Stop()

	c.execute(ctx, Request{Force: true, Reason: "startup"})

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.autoUpdateEnabled() {
				c.execute(ctx, Request{Reason: "tick"})
			}
		case req := <-c.requests:
			req = c.drain(req)
			c.applyControl(req, ticker)
			if req.Station != "" || req.Force {
				c.execute(ctx, req)
			}
		}
	}
}

// drain coalesces every pending request into one: the newest station
// wins, force is sticky, the newest control values win.
func (c *Controller) drain(req Request) Request {
	for {
		select {
		case next := <-c.requests:
			if next.Station != "" {
				req.Station = next.Station
			}
			req.Force = req.Force || next.Force
			if next.Interval > 0 {
				req.Interval = next.Interval
			}
			if next.AutoUpdate != nil {
				req.AutoUpdate = next.AutoUpdate
			}
			if next.Reason != "" {
				req.Reason = next.Reason
			}
		default:
			return req
		}
	}
}

// applyControl applies interval and auto-update changes carried by a
// request before any cycle it triggers.
func (c *Controller) applyControl(req Request, ticker *time.Ticker) {
	if req.Interval > 0 {
		c.mu.Lock()
		changed := req.Interval != c.interval
		c.interval = req.Interval
		c.mu.Unlock()
		if changed {
			ticker.Reset(req.Interval)
			c.logger.Info().Dur("interval", req.Interval).Msg("Update interval changed")
		}
	}
	if req.AutoUpdate != nil {
		c.mu.Lock()
		changed := *req.AutoUpdate != c.autoUpdate
		c.autoUpdate = *req.AutoUpdate
		c.mu.Unlock()
		if changed {
			c.logger.Info().Bool("auto_update", *req.AutoUpdate).Msg("Automatic updates toggled")
		}
	}
}

// execute retargets if the request names a station, then runs a cycle.
func (c *Controller) execute(ctx context.Context, req Request) {
	changed := c.applyStation(req.Station)
	c.runCycle(ctx, req.Force || changed, req.Reason)
}

// applyStation switches the target station, clearing the stored
// snapshot so the next comparison cannot skip. Reports whether the
// target actually changed.
func (c *Controller) applyStation(station string) bool {
	if station == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if station == c.station {
		return false
	}
	c.logger.Info().Str("from", c.station).Str("to", station).Msg("Station changed")
	c.station = station
	c.current = nil
	return true
}

// Submit routes an operator request into the run loop without blocking.
func (c *Controller) Submit(req Request) {
	select {
	case c.requests <- req:
	default:
		c.logger.Warn().Msg("Request queue full, request dropped")
	}
}

// SetStation validates and submits a station change.
func (c *Controller) SetStation(station, reason string) error {
	station = strings.ToUpper(strings.TrimSpace(station))
	if !config.ValidStation(station) {
		return config.ErrInvalidStation
	}
	c.Submit(Request{Station: station, Force: true, Reason: reason})
	return nil
}

// ForceRefresh submits an unconditional refresh.
func (c *Controller) ForceRefresh(reason string) {
	c.Submit(Request{Force: true, Reason: reason})
}

// Reconfigure applies a control file document as an operator request.
func (c *Controller) Reconfigure(ctrl *config.Control) {
	req := Request{Reason: "control-file"}
	if ctrl.Station != "" {
		station := strings.ToUpper(strings.TrimSpace(ctrl.Station))
		if config.ValidStation(station) {
			req.Station = station
		} else {
			c.logger.Warn().Str("station", ctrl.Station).Msg("Control file station rejected")
		}
	}
	if d := ctrl.UpdateInterval.Std(); d > 0 {
		req.Interval = d
	}
	req.AutoUpdate = ctrl.AutoUpdate
	c.Submit(req)
}

// Status reports the controller's current view for the operator surface.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:      c.state,
		Station:    c.station,
		Interval:   c.interval,
		AutoUpdate: c.autoUpdate,
		Snapshot:   c.current,
		LastCycle:  c.lastCycle,
		Counters:   c.counters,
	}
}

// Stop waits for the run loop to exit, then clears and sleeps the
// panel so no stale forecast outlives the process.
func (c *Controller) Stop(ctx context.Context) {
	c.stopOnce.Do(func() {
		select {
		case <-c.done:
		case <-ctx.Done():
		}

		if err := c.device.Clear(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to clear panel on shutdown")
		} else {
			metrics.PanelClears.Inc()
			c.logger.Info().Msg("Panel cleared")
		}
		if err := c.device.Sleep(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to sleep panel on shutdown")
		}
	})
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) targetStation() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.station
}

func (c *Controller) lastSnapshot() *wx.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) tickInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

func (c *Controller) autoUpdateEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoUpdate
}
