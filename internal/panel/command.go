package panel

import (
	"context"
	"fmt"
	"image"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// CommandDevice drives the panel through an external vendor helper,
// typically a Python script wrapping the manufacturer's driver. Frames
// are spooled to a PNG file first because the helper reads files.
//
// The helper is invoked with a subcommand per operation:
//
//	<cmd> display <frame.png>
//	<cmd> clear
//	<cmd> sleep
type CommandDevice struct {
	cmd    string
	spool  string
	width  int
	height int
	logger zerolog.Logger
}

// NewCommandDevice creates a device invoking cmd for each panel operation.
func NewCommandDevice(cmd, outputDir string, width, height int, logger zerolog.Logger) *CommandDevice {
	return &CommandDevice{
		cmd:    cmd,
		spool:  filepath.Join(outputDir, "panel.png"),
		width:  width,
		height: height,
		logger: logger,
	}
}

func (d *CommandDevice) Display(ctx context.Context, frame image.Image) error {
	if err := writeFramePNG(d.spool, frame); err != nil {
		return err
	}
	return d.run(ctx, "display", d.spool)
}

func (d *CommandDevice) Clear(ctx context.Context) error {
	return d.run(ctx, "clear")
}

func (d *CommandDevice) Sleep(ctx context.Context) error {
	return d.run(ctx, "sleep")
}

func (d *CommandDevice) run(ctx context.Context, args ...string) error {
	parts := strings.Fields(d.cmd)
	if len(parts) == 0 {
		return fmt.Errorf("%w: no panel command configured", ErrDisplayFault)
	}

	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v (%s)",
			ErrDisplayFault, parts[0], args[0], err, strings.TrimSpace(string(output)))
	}

	d.logger.Debug().Str("cmd", parts[0]).Str("op", args[0]).Msg("Panel command completed")
	return nil
}
