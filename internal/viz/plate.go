package viz

import (
	"math"

	"github.com/san-kum/chromasim/internal/frames"
	"github.com/san-kum/chromasim/internal/render"
)

// guide is the color index of the base line and lane markers.
const guide = -1

// Plate draws display frames onto a canvas, scaled to the plate extents.
type Plate struct {
	Canvas *Canvas
	axes   frames.Axes
	lanes  int
}

func NewPlate(w, h, compoundCount, frameCount int) *Plate {
	return &Plate{
		Canvas: NewCanvas(w, h),
		axes:   frames.Extents(compoundCount, frameCount),
		lanes:  compoundCount,
	}
}

// Project maps plate coordinates to canvas sub-pixels, origin bottom-left.
// The last two sub-pixel rows and columns are left for the dot size.
func (p *Plate) Project(x, y float64) (int, int) {
	cw, ch := p.Canvas.PixelSize()
	sx := (x - p.axes.X.Min) / p.axes.X.Span() * float64(cw-2)
	sy := (y - p.axes.Y.Min) / p.axes.Y.Span() * float64(ch-2)
	return int(math.Round(sx)), ch - 2 - int(math.Round(sy))
}

// Draw clears the canvas and draws f: the base line, a tick per lane and
// every visible point in its entry's color.
func (p *Plate) Draw(f frames.Frame) {
	c := p.Canvas
	c.Clear()

	cw, ch := c.PixelSize()
	c.DrawLine(0, ch-1, cw-1, ch-1, guide)
	for lane := 0; lane < p.lanes; lane++ {
		x, _ := p.Project(float64(lane), 0)
		c.Set(x, ch-1, guide)
		c.Set(x+1, ch-1, guide)
	}

	for _, pts := range f.Points {
		idx := pts.Index % len(render.Palette)
		for i := range pts.Y {
			x, y := p.Project(pts.X[i], pts.Y[i])
			c.Dot(x, y, idx)
		}
	}
}
