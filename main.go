// Command weather-dashboard drives an e-paper METAR display: it
// periodically fetches aviation weather from AVWX, renders it to a
// panel-sized frame and pushes changed frames to the display, while
// serving an operator surface over HTTP and stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
	"github.com/tomargood/weather-dashboardv2/internal/config"
	"github.com/tomargood/weather-dashboardv2/internal/controller"
	"github.com/tomargood/weather-dashboardv2/internal/logging"
	"github.com/tomargood/weather-dashboardv2/internal/mocks"
	"github.com/tomargood/weather-dashboardv2/internal/panel"
	"github.com/tomargood/weather-dashboardv2/internal/render"
	"github.com/tomargood/weather-dashboardv2/internal/server"
	"github.com/tomargood/weather-dashboardv2/internal/storage"
)

// controlPollInterval is how often the control file is re-checked. It
// runs on its own ticker so a paused dashboard can still be resumed
// through the file.
const controlPollInterval = 30 * time.Second

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	version := config.GetVersion()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.Info().
		Str("version", version).
		Str("station", cfg.Station).
		Str("panel_mode", cfg.PanelMode).
		Bool("mockup", cfg.MockupMode).
		Msg("Starting weather dashboard")

	if err := run(cfg, version, logger); err != nil {
		logger.Fatal().Err(err).Msg("Daemon failed")
	}
}

func run(cfg *config.Config, version string, logger zerolog.Logger) error {
	var source controller.Source
	if cfg.MockupMode {
		logger.Info().Str("dir", cfg.MocksDir).Msg("Mockup mode enabled, serving canned weather")
		source = mocks.NewMockService(cfg.MocksDir, logger)
	} else {
		source = avwx.NewClient(cfg.AVWXBaseURL, cfg.AVWXAPIToken, cfg.FetchTimeout, logger)
	}

	store, err := storage.NewLocalClient(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	renderer := render.NewRenderer(render.Options{
		Loader:    render.NewTemplateLoader(cfg.TemplatesDir),
		OutputDir: filepath.Join(cfg.OutputDir, "current"),
		Width:     cfg.PanelWidth,
		Height:    cfg.PanelHeight,
		Version:   version,
		Tools:     render.DefaultTools(cfg.WkhtmltoimageBin, cfg.ChromiumBin),
		Logger:    logger,
	})

	device, err := panel.New(cfg, logger)
	if err != nil {
		return err
	}

	ctrl := controller.New(controller.Options{
		Source:        source,
		Renderer:      renderer,
		Device:        device,
		Store:         store,
		Station:       cfg.Station,
		Interval:      cfg.UpdateInterval,
		FetchTimeout:  cfg.FetchTimeout,
		RenderTimeout: cfg.RenderTimeout,
		KeepCycles:    cfg.KeepCycles,
		Logger:        logger,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(runCtx)

	quit := make(chan struct{}, 1)
	srv := server.New(server.Options{
		Controller: ctrl,
		Store:      store,
		Loader:     render.NewTemplateLoader(cfg.TemplatesDir),
		PanelPNG:   filepath.Join(cfg.OutputDir, "panel.png"),
		FramePNG:   renderer.ImagePath(),
		Version:    version,
		Quit:       quit,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
			signalQuit(quit)
		}
	}()

	if cfg.ControlFile != "" {
		go watchControlFile(runCtx, cfg.ControlFile, ctrl, logger)
	}
	go readCommands(os.Stdin, ctrl, quit, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-quit:
		logger.Info().Msg("Shutting down")
	}

	// Stop the cycle loop first so the panel clear is the last frame
	// operation.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	ctrl.Stop(shutdownCtx)

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("Daemon stopped")
	return nil
}

// watchControlFile polls the operator control file and applies edits to
// the running controller.
func watchControlFile(ctx context.Context, path string, ctrl *controller.Controller, logger zerolog.Logger) {
	watcher := config.NewControlWatcher(path)

	apply := func() {
		doc, changed, err := watcher.Poll()
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Control file unreadable")
			return
		}
		if changed {
			logger.Info().Str("path", path).Msg("Control file applied")
			ctrl.Reconfigure(doc)
		}
	}

	// An existing file applies on startup, before the first tick.
	apply()

	ticker := time.NewTicker(controlPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			apply()
		}
	}
}

// readCommands drives the stdin console: station <ICAO>, refresh, quit.
// Single-letter shortcuts r and q work too.
func readCommands(in io.Reader, ctrl *controller.Controller, quit chan<- struct{}, logger zerolog.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "station", "s":
			if len(fields) < 2 {
				logger.Warn().Msg("Usage: station <ICAO>")
				continue
			}
			if err := ctrl.SetStation(fields[1], "stdin"); err != nil {
				logger.Warn().Str("station", fields[1]).Msg("Invalid station identifier")
			}
		case "refresh", "r":
			ctrl.ForceRefresh("stdin")
		case "quit", "q", "exit":
			signalQuit(quit)
			return
		default:
			logger.Warn().Str("command", fields[0]).Msg("Unknown command (station <ICAO> | refresh | quit)")
		}
	}
}

func signalQuit(quit chan<- struct{}) {
	select {
	case quit <- struct{}{}:
	default:
	}
}
