package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
	"github.com/tomargood/weather-dashboardv2/internal/metrics"
	"github.com/tomargood/weather-dashboardv2/internal/panel"
	"github.com/tomargood/weather-dashboardv2/internal/render"
	"github.com/tomargood/weather-dashboardv2/internal/storage"
	"github.com/tomargood/weather-dashboardv2/internal/wx"
)

// runCycle executes one fetch-decide-render-display pass. All failures
// resolve back to Idle with the stored snapshot untouched, so the next
// comparison is still against the last state the panel actually shows.
func (c *Controller) runCycle(ctx context.Context, force bool, reason string) {
	cycleID := uuid.New().String()[:8]
	logger := c.logger.With().Str("cycle", cycleID).Logger()

	station := c.targetStation()
	logger.Info().
		Str("station", station).
		Str("reason", reason).
		Bool("force", force).
		Msg("Update cycle started")

	c.setState(StateFetching)

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	start := time.Now()
	bundle, err := c.source.FetchAll(fetchCtx, station)
	cancel()
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.failCycle(logger, cycleID, station, err)
		return
	}

	snap, err := wx.Normalize(bundle, station)
	if err != nil {
		c.failCycle(logger, cycleID, station, err)
		return
	}

	c.setState(StateDeciding)

	// The operator may have retargeted while the fetch was in flight;
	// a stale result must not reach the panel.
	if target := c.targetStation(); target != station {
		logger.Info().Str("station", station).Str("target", target).Msg("Stale cycle result discarded")
		c.finishCycle(cycleID, station, metrics.ResultSkipped, "")
		return
	}

	if !force && !wx.Changed(c.lastSnapshot(), snap) {
		logger.Info().Str("observed", snap.ObservedText).Msg("Conditions unchanged, panel refresh skipped")
		c.finishCycle(cycleID, station, metrics.ResultSkipped, "")
		return
	}

	c.setState(StateRendering)

	renderCtx, cancel := context.WithTimeout(ctx, c.renderTimeout)
	start = time.Now()
	frame, err := c.renderer.Render(renderCtx, snap)
	cancel()
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.failCycle(logger, cycleID, station, err)
		return
	}

	c.setState(StateDisplaying)

	if err := c.device.Display(ctx, frame); err != nil {
		c.failCycle(logger, cycleID, station, err)
		return
	}
	metrics.PanelRefreshes.Inc()

	c.adopt(station, snap)
	c.archive(ctx, logger, snap, frame)

	logger.Info().
		Str("station", station).
		Str("conditions", snap.Condition).
		Str("flight_rules", snap.FlightRules).
		Msg("Panel refreshed")
	c.finishCycle(cycleID, station, metrics.ResultDisplayed, "")
}

// adopt stores the displayed snapshot unless the target moved away
// mid-cycle.
func (c *Controller) adopt(station string, snap *wx.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.station == station {
		c.current = snap
	}
}

func (c *Controller) failCycle(logger zerolog.Logger, cycleID, station string, err error) {
	c.setState(StateError)
	logger.Error().
		Err(err).
		Str("station", station).
		Str("class", errorClass(err)).
		Msg("Update cycle failed")
	c.finishCycle(cycleID, station, metrics.ResultError, err.Error())
}

// finishCycle records the outcome and resolves the state machine to
// Idle.
func (c *Controller) finishCycle(cycleID, station, outcome, errText string) {
	metrics.CyclesTotal.WithLabelValues(outcome).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.lastCycle = CycleResult{
		ID:         cycleID,
		Station:    station,
		Outcome:    outcome,
		Error:      errText,
		FinishedAt: time.Now().UTC(),
	}
	switch outcome {
	case metrics.ResultDisplayed:
		c.counters.Displayed++
	case metrics.ResultSkipped:
		c.counters.Skipped++
	case metrics.ResultError:
		c.counters.Failed++
	}
}

// errorClass buckets a cycle failure for logs. Every class resolves the
// same way (state kept, retry next tick), the bucket just tells the
// operator which stage to look at.
func errorClass(err error) string {
	switch {
	case errors.Is(err, avwx.ErrObservationUnavailable), errors.Is(err, wx.ErrIncompleteObservation):
		return "data_unavailable"
	case errors.Is(err, render.ErrRenderTimeout):
		return "render_timeout"
	case errors.Is(err, render.ErrRendererUnavailable):
		return "render_unavailable"
	case errors.Is(err, panel.ErrDisplayFault):
		return "display_error"
	default:
		return "internal"
	}
}

// archive stores the cycle's artifacts under STATION/TIMESTAMP and
// prunes old cycles. Archiving is best effort; a full disk must not
// stop the panel from updating.
func (c *Controller) archive(ctx context.Context, logger zerolog.Logger, snap *wx.Snapshot, frame image.Image) {
	if c.store == nil {
		return
	}

	folder := storage.CycleFolder(snap.StationID, snap.ObservedAt)

	if data, err := os.ReadFile(c.renderer.HTMLPath()); err == nil {
		c.storeArtifact(ctx, logger, filepath.Join(folder, "weather.html"), data)
	}
	if data, err := os.ReadFile(c.renderer.ImagePath()); err == nil {
		c.storeArtifact(ctx, logger, filepath.Join(folder, "weather.png"), data)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err == nil {
		c.storeArtifact(ctx, logger, filepath.Join(folder, "panel.png"), buf.Bytes())
	}

	if data, err := json.MarshalIndent(snap, "", "  "); err == nil {
		c.storeArtifact(ctx, logger, filepath.Join(folder, "snapshot.json"), data)
	}

	if removed, err := c.store.PruneCycles(ctx, snap.StationID, c.keepCycles); err != nil {
		logger.Warn().Err(err).Msg("Failed to prune old cycles")
	} else if removed > 0 {
		logger.Debug().Int("removed", removed).Msg("Old cycles pruned")
	}
}

func (c *Controller) storeArtifact(ctx context.Context, logger zerolog.Logger, path string, data []byte) {
	if err := c.store.StoreFile(ctx, path, data); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to archive artifact")
	}
}
