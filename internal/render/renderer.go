package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/tomargood/weather-dashboardv2/internal/wx"
)

// Renderer failure classes surfaced to the cycle controller.
var (
	// ErrRendererUnavailable means no screenshot tool produced a frame.
	ErrRendererUnavailable = errors.New("no screenshot tool available")
	// ErrRenderTimeout means the screenshot step exceeded its budget.
	ErrRenderTimeout = errors.New("render timed out")
)

// Tool is one external HTML-to-PNG converter invocation.
type Tool struct {
	Name string
	Args func(htmlPath, pngPath string, width, height int) []string
}

// DefaultTools returns the screenshot tool chain: wkhtmltoimage first,
// headless chromium as fallback.
func DefaultTools(wkhtmltoimageBin, chromiumBin string) []Tool {
	return []Tool{
		{
			Name: wkhtmltoimageBin,
			Args: func(htmlPath, pngPath string, width, height int) []string {
				return []string{
					"--width", strconv.Itoa(width),
					"--height", strconv.Itoa(height),
					"--quality", "100",
					htmlPath, pngPath,
				}
			},
		},
		{
			Name: chromiumBin,
			Args: func(htmlPath, pngPath string, width, height int) []string {
				abs, err := filepath.Abs(htmlPath)
				if err != nil {
					abs = htmlPath
				}
				return []string{
					"--headless",
					"--disable-gpu",
					"--no-sandbox",
					"--hide-scrollbars",
					"--force-device-scale-factor=1",
					"--screenshot=" + pngPath,
					fmt.Sprintf("--window-size=%d,%d", width, height),
					"file://" + abs,
				}
			},
		},
	}
}

// Options configures a Renderer.
type Options struct {
	Loader    *TemplateLoader
	OutputDir string
	Width     int
	Height    int
	Version   string
	Tools     []Tool
	Logger    zerolog.Logger
}

// Renderer turns snapshots into panel-sized frames: the page template is
// written to disk and rasterized with an external screenshot tool.
type Renderer struct {
	builder   *PageBuilder
	outputDir string
	width     int
	height    int
	version   string
	tools     []Tool
	logger    zerolog.Logger
}

// NewRenderer creates a renderer from opts.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		builder:   NewPageBuilder(opts.Loader),
		outputDir: opts.OutputDir,
		width:     opts.Width,
		height:    opts.Height,
		version:   opts.Version,
		tools:     opts.Tools,
		logger:    opts.Logger,
	}
}

// HTMLPath returns the working HTML file location.
func (r *Renderer) HTMLPath() string { return filepath.Join(r.outputDir, "weather.html") }

// ImagePath returns the working PNG file location.
func (r *Renderer) ImagePath() string { return filepath.Join(r.outputDir, "weather.png") }

// Render produces the panel frame for snap: page HTML, screenshot PNG,
// decoded and scaled to the panel size.
func (r *Renderer) Render(ctx context.Context, snap *wx.Snapshot) (image.Image, error) {
	if err := r.WriteHTML(snap); err != nil {
		return nil, err
	}
	if err := r.Screenshot(ctx); err != nil {
		return nil, err
	}
	return r.LoadFrame()
}

// WriteHTML renders the page template for snap into the output directory.
func (r *Renderer) WriteHTML(snap *wx.Snapshot) error {
	page, err := r.builder.BuildPageHTML(NewTemplateData(snap, r.version, r.width, r.height))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(r.HTMLPath(), []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write page HTML: %w", err)
	}
	return nil
}

// Screenshot rasterizes the written page with the first tool that works.
func (r *Renderer) Screenshot(ctx context.Context) error {
	for _, tool := range r.tools {
		args := tool.Args(r.HTMLPath(), r.ImagePath(), r.width, r.height)
		cmd := exec.CommandContext(ctx, tool.Name, args...)
		output, err := cmd.CombinedOutput()
		if err == nil {
			r.logger.Debug().Str("tool", tool.Name).Msg("Screenshot captured")
			return nil
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s exceeded the render budget", ErrRenderTimeout, tool.Name)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) {
			r.logger.Debug().Str("tool", tool.Name).Msg("Screenshot tool not installed")
			continue
		}
		r.logger.Warn().
			Err(err).
			Str("tool", tool.Name).
			Str("output", truncate(string(output), 200)).
			Msg("Screenshot tool failed, trying next")
	}
	return ErrRendererUnavailable
}

// LoadFrame decodes the screenshot, scaling it when the tool produced
// dimensions other than the panel's.
func (r *Renderer) LoadFrame() (image.Image, error) {
	f, err := os.Open(r.ImagePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open rendered frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered frame: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == r.width && bounds.Dy() == r.height {
		return img, nil
	}

	r.logger.Debug().
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("Scaling frame to panel size")

	scaled := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
	return scaled, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
