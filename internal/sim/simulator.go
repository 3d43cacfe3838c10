// Package sim generates the frame-by-frame migration series of compounds on
// a TLC plate.
package sim

import (
	"context"
	"math"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/tlc"
)

// DefaultJitter is the half-width of the horizontal band analyte points are
// scattered over around their lane.
const DefaultJitter = 0.05

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Generate produces the series of one compound over frameCount frames plus
// the settled tail. The solvent stays exactly on its lane; any other
// compound is jittered uniformly within DefaultJitter of it.
func Generate(p compound.Params, frameCount int, solvent bool, src Source) (tlc.Series, error) {
	return generate(p, frameCount, solvent, src, DefaultJitter)
}

// jitterX maps a draw u in [0, 1) to within halfWidth of lane. The result
// is pulled toward lane when rounding would leave it outside the band.
func jitterX(lane, halfWidth, u float64) float64 {
	x := lane + halfWidth*(2*u-1)
	for math.Abs(x-lane) > halfWidth {
		x = math.Nextafter(x, lane)
	}
	return x
}

func generate(p compound.Params, frameCount int, solvent bool, src Source, jitter float64) (tlc.Series, error) {
	if err := validate(p, frameCount, solvent, src); err != nil {
		return tlc.Series{}, err
	}

	n := tlc.SeriesLength(frameCount)
	s := tlc.Series{X: make([]float64, 0, n), Y: make([]float64, 0, n)}
	lane := float64(p.Lane)

	for i := 0; i < frameCount; i++ {
		x := lane
		if !solvent {
			x = jitterX(lane, jitter, src.Float64())
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, p.Position+float64(i)*p.Rate)
	}

	lastX, lastY := s.Last()
	for i := 0; i < tlc.TailLength(frameCount); i++ {
		s.X = append(s.X, lastX)
		s.Y = append(s.Y, lastY)
	}

	return s, nil
}

func validate(p compound.Params, frameCount int, solvent bool, src Source) error {
	const op = "sim.Generate"

	if p.IsZero() {
		return tlc.Invalid(op, "", nil, "no compound")
	}
	if frameCount <= 0 {
		return tlc.Invalid(op, "frame count", frameCount, "must be positive")
	}
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) || p.Rate <= 0 {
		return tlc.Invalid(op, "rate", p.Rate, "must be a positive finite number")
	}
	if math.IsNaN(p.Position) || math.IsInf(p.Position, 0) {
		return tlc.Invalid(op, "position", p.Position, "must be finite")
	}
	if !solvent && src == nil {
		return tlc.Invalid(op, "source", nil, "jitter needs a random source")
	}
	return nil
}

// Simulator runs Generate for every compound of a plate.
type Simulator struct {
	src    Source
	jitter float64
}

type Option func(*Simulator)

// WithJitter overrides the analyte jitter half-width.
func WithJitter(halfWidth float64) Option {
	return func(s *Simulator) {
		if halfWidth >= 0 {
			s.jitter = halfWidth
		}
	}
}

func New(src Source, opts ...Option) *Simulator {
	s := &Simulator{src: src, jitter: DefaultJitter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run simulates compounds in order and returns one entry per compound in
// the same order. Compounds do not interact.
func (s *Simulator) Run(ctx context.Context, compounds []compound.Compound, frameCount int) ([]tlc.Entry, error) {
	if len(compounds) == 0 {
		return nil, tlc.Invalid("sim.Run", "", nil, "no compound")
	}

	entries := make([]tlc.Entry, 0, len(compounds))
	for _, c := range compounds {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		series, err := generate(c.MotionParams(), frameCount, c.IsSolvent(), s.src, s.jitter)
		if err != nil {
			return nil, err
		}
		entries = append(entries, tlc.Entry{
			Name:    c.Name(),
			Lane:    c.Lane(),
			Solvent: c.IsSolvent(),
			Series:  series,
		})
	}

	return entries, nil
}
