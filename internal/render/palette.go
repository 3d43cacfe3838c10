package render

import (
	"image/color"
	"image/color/palette"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the marker colors, one per entry in run order, cycled when
// a run has more entries: black, blue, green, yellow, magenta, red. Every
// color sits on the web-safe grid so GIF quantization keeps it exact.
var Palette = []drawing.Color{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	{R: 0x00, G: 0x99, B: 0x00, A: 0xff},
	{R: 0xcc, G: 0xcc, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x00, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
}

// Color returns the marker color of the entry at index i.
func Color(i int) drawing.Color {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// gifPalette is the frame palette. palette.WebSafe contains every marker
// color plus white and enough greys for axis text.
var gifPalette color.Palette = palette.WebSafe
