package panel

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Test pattern geometry.
const (
	patternGridStep    = 100
	patternBorderWidth = 5
)

var patternGridColor = drawing.Color{R: 211, G: 211, B: 211, A: 255} // Light gray

// TestPattern draws the calibration image pushed by cmd/panel-test:
// white ground, black border, light alignment grid, red center
// crosshair and corner labels for judging placement and ghosting.
func TestPattern(width, height int) (image.Image, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create raster renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// White ground
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	// Alignment grid
	r.SetStrokeColor(patternGridColor)
	r.SetStrokeWidth(1)
	for x := patternGridStep; x < width; x += patternGridStep {
		r.MoveTo(x, 0)
		r.LineTo(x, height)
		r.Stroke()
	}
	for y := patternGridStep; y < height; y += patternGridStep {
		r.MoveTo(0, y)
		r.LineTo(width, y)
		r.Stroke()
	}

	// Border
	r.SetStrokeColor(drawing.ColorBlack)
	r.SetStrokeWidth(patternBorderWidth)
	r.MoveTo(2, 2)
	r.LineTo(width-3, 2)
	r.LineTo(width-3, height-3)
	r.LineTo(2, height-3)
	r.Close()
	r.Stroke()

	// Center crosshair
	r.SetStrokeColor(drawing.ColorRed)
	r.SetStrokeWidth(2)
	r.MoveTo(width/2, 0)
	r.LineTo(width/2, height)
	r.Stroke()
	r.MoveTo(0, height/2)
	r.LineTo(width, height/2)
	r.Stroke()

	// Corner labels
	r.SetFont(font)
	r.SetFontSize(14)
	r.SetFontColor(drawing.ColorBlack)
	r.Text("TL", 12, 26)
	r.Text("TR", width-12-r.MeasureText("TR").Width(), 26)
	r.Text("BL", 12, height-12)
	r.Text("BR", width-12-r.MeasureText("BR").Width(), height-12)

	// Center label
	label := fmt.Sprintf("CENTER %dx%d", width, height)
	r.SetFontColor(drawing.ColorRed)
	r.Text(label, (width-r.MeasureText(label).Width())/2, height/2-12)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to rasterize test pattern: %w", err)
	}
	return png.Decode(&buf)
}
