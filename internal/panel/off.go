package panel

import (
	"context"
	"image"

	"github.com/rs/zerolog"
)

// OffDevice drops frames. Used when no panel hardware is attached;
// absence of hardware is not an error.
type OffDevice struct {
	logger zerolog.Logger
}

// NewOffDevice creates a no-op device.
func NewOffDevice(logger zerolog.Logger) *OffDevice {
	return &OffDevice{logger: logger}
}

func (d *OffDevice) Display(ctx context.Context, frame image.Image) error {
	d.logger.Debug().Msg("Panel off, frame dropped")
	return nil
}

func (d *OffDevice) Clear(ctx context.Context) error {
	d.logger.Debug().Msg("Panel off, clear skipped")
	return nil
}

func (d *OffDevice) Sleep(ctx context.Context) error {
	return nil
}
