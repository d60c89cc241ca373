// Command panel-test pushes an alignment pattern to the configured
// panel: grid, border, center crosshair and corner labels for checking
// geometry and ghosting after mounting a display.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomargood/weather-dashboardv2/internal/config"
	"github.com/tomargood/weather-dashboardv2/internal/logging"
	"github.com/tomargood/weather-dashboardv2/internal/panel"
)

func main() {
	out := flag.String("out", "", "also write the pattern to this PNG file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	pattern, err := panel.TestPattern(cfg.PanelWidth, cfg.PanelHeight)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build test pattern")
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create pattern file")
		}
		if err := png.Encode(f, pattern); err != nil {
			f.Close()
			logger.Fatal().Err(err).Msg("Failed to encode pattern")
		}
		f.Close()
		logger.Info().Str("path", *out).Msg("Pattern written")
	}

	device, err := panel.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open panel")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := device.Display(ctx, pattern); err != nil {
		logger.Fatal().Err(err).Msg("Failed to display pattern")
	}
	logger.Info().
		Str("mode", cfg.PanelMode).
		Int("width", cfg.PanelWidth).
		Int("height", cfg.PanelHeight).
		Msg("Test pattern displayed")
}
