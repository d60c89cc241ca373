// Command panel-off clears the panel and puts it to sleep, for
// powering the host down without leaving a stale forecast burned in.
// With -shutdown it also halts the host afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomargood/weather-dashboardv2/internal/config"
	"github.com/tomargood/weather-dashboardv2/internal/logging"
	"github.com/tomargood/weather-dashboardv2/internal/panel"
)

func main() {
	shutdown := flag.Bool("shutdown", false, "halt the host after the panel is off")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	device, err := panel.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open panel")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := device.Clear(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to clear panel")
	}
	if err := device.Sleep(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to sleep panel")
	}
	logger.Info().Str("mode", cfg.PanelMode).Msg("Panel cleared and asleep")

	if *shutdown {
		logger.Info().Msg("Halting host")
		cmd := exec.Command("sudo", "shutdown", "-h", "now")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			logger.Fatal().Err(err).Msg("Host shutdown failed")
		}
	}
}
