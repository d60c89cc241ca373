// Package panel pushes rendered frames to the e-paper display. The
// hardware itself is reached through an external vendor helper; this
// package only decides where frames go and in what form.
package panel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tomargood/weather-dashboardv2/internal/config"
)

// ErrDisplayFault marks a panel operation the hardware helper rejected.
var ErrDisplayFault = errors.New("panel display fault")

// Device is a display sink for rendered frames.
type Device interface {
	// Display pushes a full frame to the panel.
	Display(ctx context.Context, frame image.Image) error

	// Clear blanks the panel to white.
	Clear(ctx context.Context) error

	// Sleep puts the panel controller into deep sleep.
	Sleep(ctx context.Context) error
}

// New selects a device for the configured panel mode.
func New(cfg *config.Config, logger zerolog.Logger) (Device, error) {
	switch cfg.PanelMode {
	case config.PanelModeOff:
		return NewOffDevice(logger), nil
	case config.PanelModePNG:
		return NewPNGDevice(cfg.OutputDir, cfg.PanelWidth, cfg.PanelHeight, logger), nil
	case config.PanelModeCommand:
		return NewCommandDevice(cfg.PanelCmd, cfg.OutputDir, cfg.PanelWidth, cfg.PanelHeight, logger), nil
	default:
		return nil, fmt.Errorf("unsupported panel mode: %s", cfg.PanelMode)
	}
}

// writeFramePNG encodes a frame to disk, creating parent directories.
func writeFramePNG(path string, frame image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create spool directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, frame); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// whiteFrame builds an all-white image at panel dimensions.
func whiteFrame(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}
