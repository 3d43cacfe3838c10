// Package frames derives what an animation shows at each display frame:
// the axis extents of the plate and the slice of every series visible.
package frames

import "github.com/san-kum/chromasim/internal/tlc"

const (
	// Buffer is the number of display frames shown after the simulated
	// ones, before the animation loops.
	Buffer = 25
	// Trail is how many trailing points of an analyte stay visible.
	Trail = 10

	laneMargin = 0.1
	headroom   = 1.1
)

type Range struct {
	Min, Max float64
}

func (r Range) Span() float64 { return r.Max - r.Min }

type Axes struct {
	X, Y Range
}

// TotalFrames is the number of display frames for frameCount simulated
// frames.
func TotalFrames(frameCount int) int {
	return frameCount + Buffer
}

// Extents spans one unit per lane plus a 10% margin horizontally, and
// frameCount plus 10% vertically.
func Extents(compoundCount, frameCount int) Axes {
	n := float64(compoundCount)
	return Axes{
		X: Range{Min: 0, Max: (n - 1) + n*laneMargin},
		Y: Range{Min: 0, Max: float64(frameCount) * headroom},
	}
}

// Window returns the part of e visible at display frame (1-based). The
// solvent draws its whole trail up to frame; analytes show only the
// trailing points. Bounds are clamped to the series. The returned slices
// share storage with e.Series.
func Window(e tlc.Entry, frame, trail int) (x, y []float64) {
	n := e.Series.Len()
	end := clamp(frame, 0, n)
	start := 0
	if !e.Solvent {
		start = clamp(frame-trail, 0, end)
	}
	return e.Series.X[start:end], e.Series.Y[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Points is the visible part of one entry in one frame. Index is the
// entry's position in the run, used to pick its color.
type Points struct {
	Name  string
	Index int
	X, Y  []float64
}

func (p Points) Empty() bool { return len(p.Y) == 0 }

type Frame struct {
	Index  int
	Points []Points
}

// At builds display frame i for entries.
func At(entries []tlc.Entry, frame, trail int) Frame {
	f := Frame{Index: frame, Points: make([]Points, len(entries))}
	for i, e := range entries {
		x, y := Window(e, frame, trail)
		f.Points[i] = Points{Name: e.Name, Index: i, X: x, Y: y}
	}
	return f
}

// Sequence yields display frames 1..TotalFrames(frameCount).
func Sequence(entries []tlc.Entry, frameCount, trail int) []Frame {
	total := TotalFrames(frameCount)
	out := make([]Frame, 0, total)
	for i := 1; i <= total; i++ {
		out = append(out, At(entries, i, trail))
	}
	return out
}
