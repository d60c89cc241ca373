// Command preview runs one fetch-render pass and writes an annotated
// preview PNG, for checking page layout on a desktop without a panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomargood/weather-dashboardv2/internal/avwx"
	"github.com/tomargood/weather-dashboardv2/internal/config"
	"github.com/tomargood/weather-dashboardv2/internal/controller"
	"github.com/tomargood/weather-dashboardv2/internal/logging"
	"github.com/tomargood/weather-dashboardv2/internal/mocks"
	"github.com/tomargood/weather-dashboardv2/internal/render"
	"github.com/tomargood/weather-dashboardv2/internal/wx"
)

func main() {
	station := flag.String("station", "", "station to preview (default: STATION from the environment)")
	out := flag.String("out", "weather_preview.png", "preview output path")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	target := cfg.Station
	if *station != "" {
		target = *station
	}
	if !config.ValidStation(target) {
		logger.Fatal().Str("station", target).Msg("Invalid station identifier")
	}

	var source controller.Source
	if cfg.MockupMode {
		source = mocks.NewMockService(cfg.MocksDir, logger)
	} else {
		source = avwx.NewClient(cfg.AVWXBaseURL, cfg.AVWXAPIToken, cfg.FetchTimeout, logger)
	}

	renderer := render.NewRenderer(render.Options{
		Loader:    render.NewTemplateLoader(cfg.TemplatesDir),
		OutputDir: filepath.Join(cfg.OutputDir, "current"),
		Width:     cfg.PanelWidth,
		Height:    cfg.PanelHeight,
		Version:   config.GetVersion(),
		Tools:     render.DefaultTools(cfg.WkhtmltoimageBin, cfg.ChromiumBin),
		Logger:    logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+cfg.RenderTimeout)
	defer cancel()

	bundle, err := source.FetchAll(ctx, target)
	if err != nil {
		logger.Fatal().Err(err).Str("station", target).Msg("Fetch failed")
	}
	snap, err := wx.Normalize(bundle, target)
	if err != nil {
		logger.Fatal().Err(err).Msg("Normalize failed")
	}

	start := time.Now()
	frame, err := renderer.Render(ctx, snap)
	if err != nil {
		logger.Fatal().Err(err).Msg("Render failed")
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create preview file")
	}
	defer f.Close()
	if err := png.Encode(f, render.AnnotatePreview(frame)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to encode preview")
	}

	logger.Info().
		Str("station", snap.StationID).
		Str("conditions", snap.Condition).
		Dur("took", time.Since(start)).
		Msg("Preview rendered")
	fmt.Printf("page HTML:  %s\n", renderer.HTMLPath())
	fmt.Printf("frame PNG:  %s\n", renderer.ImagePath())
	fmt.Printf("preview:    %s\n", *out)
}
