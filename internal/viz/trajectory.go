package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chromasim/internal/tlc"
)

// seriesColors follows render.Palette; the solvent is drawn in the
// terminal default.
var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Default,
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Red,
}

// Trajectories plots the y series of entries against frame index, keeping
// at most upTo points of each (all when upTo <= 0). It returns "" when
// there is nothing to draw.
func Trajectories(entries []tlc.Entry, upTo, width, height int, caption string) string {
	data := make([][]float64, 0, len(entries))
	colors := make([]asciigraph.AnsiColor, 0, len(entries))
	legends := make([]string, 0, len(entries))
	for i, e := range entries {
		y := e.Series.Y
		if upTo > 0 && upTo < len(y) {
			y = y[:upTo]
		}
		if len(y) < 2 {
			continue
		}
		data = append(data, y)
		colors = append(colors, seriesColors[i%len(seriesColors)])
		legends = append(legends, e.Name)
	}
	if len(data) == 0 {
		return ""
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.PlotMany(data, opts...)
}
