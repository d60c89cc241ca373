package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// previewBorder is the pixel width of the red frame drawn around previews.
const previewBorder = 3

// AnnotatePreview copies frame and marks it as a preview with a red border
// and a dimensions label, so a desktop viewer is never mistaken for real
// panel output.
func AnnotatePreview(frame image.Image) image.Image {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	red := color.RGBA{R: 200, A: 255}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for i := 0; i < previewBorder; i++ {
			out.Set(x, bounds.Min.Y+i, red)
			out.Set(x, bounds.Max.Y-1-i, red)
		}
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for i := 0; i < previewBorder; i++ {
			out.Set(bounds.Min.X+i, y, red)
			out.Set(bounds.Max.X-1-i, y, red)
		}
	}

	label := fmt.Sprintf("PREVIEW %dx%d", bounds.Dx(), bounds.Dy())
	drawer := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(red),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(bounds.Min.X+previewBorder+5, bounds.Min.Y+previewBorder+14),
	}
	drawer.DrawString(label)

	return out
}
