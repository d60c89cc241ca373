package panel

import (
	"context"
	"image"
	"path/filepath"

	"github.com/rs/zerolog"
)

// PNGDevice writes frames to a PNG file instead of driving hardware,
// for development on machines without the panel.
type PNGDevice struct {
	path   string
	width  int
	height int
	logger zerolog.Logger
}

// NewPNGDevice creates a device writing frames to <outputDir>/panel.png.
func NewPNGDevice(outputDir string, width, height int, logger zerolog.Logger) *PNGDevice {
	return &PNGDevice{
		path:   filepath.Join(outputDir, "panel.png"),
		width:  width,
		height: height,
		logger: logger,
	}
}

// Path returns the file the device writes frames to.
func (d *PNGDevice) Path() string { return d.path }

func (d *PNGDevice) Display(ctx context.Context, frame image.Image) error {
	if err := writeFramePNG(d.path, frame); err != nil {
		return err
	}
	d.logger.Debug().Str("path", d.path).Msg("Panel frame written")
	return nil
}

func (d *PNGDevice) Clear(ctx context.Context) error {
	return writeFramePNG(d.path, whiteFrame(d.width, d.height))
}

func (d *PNGDevice) Sleep(ctx context.Context) error {
	return nil
}
