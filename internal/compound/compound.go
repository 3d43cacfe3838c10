// Package compound holds the value object describing one spot on the plate:
// its name, lane and migration parameters.
package compound

import (
	"fmt"
	"math"

	"github.com/san-kum/chromasim/internal/tlc"
)

const (
	// SolventName is reserved; a compound with this name moves as the
	// solvent front.
	SolventName = "solvent"
	// SolventRate is the fixed per-step rate of the solvent front.
	SolventRate = 1.0
	SolventLane = 0
	BaseLine    = 0.0
	MaxAnalytes = 5
	MaxNameLen  = 15
)

// Params are the simulation inputs of a compound, without its name.
type Params struct {
	Lane     int
	Position float64
	Rate     float64
}

// IsZero reports whether p was never initialized.
func (p Params) IsZero() bool {
	return p == Params{}
}

// Compound is immutable. Update returns a replacement instead of changing
// the receiver, so a record can be shared across simulation calls.
type Compound struct {
	name     string
	lane     int
	position float64
	rate     float64
}

// New builds a compound without validating its fields.
func New(name string, lane int, position, rate float64) Compound {
	return Compound{name: name, lane: lane, position: position, rate: rate}
}

// Solvent returns the solvent front record.
func Solvent() Compound {
	return New(SolventName, SolventLane, BaseLine, SolventRate)
}

// Analyte returns an analyte starting on the base line.
func Analyte(name string, lane int, rate float64) Compound {
	return New(name, lane, BaseLine, rate)
}

func (c Compound) Name() string      { return c.name }
func (c Compound) Lane() int         { return c.lane }
func (c Compound) Position() float64 { return c.position }
func (c Compound) Rate() float64     { return c.rate }
func (c Compound) IsSolvent() bool   { return c.name == SolventName }

// MotionParams returns (lane, position, rate) for the simulator.
func (c Compound) MotionParams() Params {
	return Params{Lane: c.lane, Position: c.position, Rate: c.rate}
}

// Coordinates returns the current lane and position each wrapped in a
// single-element slice, the shape point plotting APIs expect.
func (c Compound) Coordinates() (x, y []float64) {
	return []float64{float64(c.lane)}, []float64{c.position}
}

func (c Compound) String() string {
	return fmt.Sprintf("%s(lane=%d, y=%g, rf=%g)", c.name, c.lane, c.position, c.rate)
}

// Motion carries the replacement values for Update. A zero Rate keeps the
// current rate.
type Motion struct {
	Lane     int
	Position float64
	Rate     float64
}

// Update returns a copy of c with the new lane and position, and the new
// rate when one is supplied. Lane must be non-negative and position a whole
// number; rate, when given, must be a positive finite real.
func (c Compound) Update(m Motion) (Compound, error) {
	const op = "compound.Update"

	if m.Lane < 0 {
		return c, tlc.Invalid(op, "lane", m.Lane, "must not be negative")
	}
	if math.IsNaN(m.Position) || math.IsInf(m.Position, 0) || m.Position != math.Trunc(m.Position) {
		return c, tlc.Invalid(op, "position", m.Position, "must be a whole number")
	}

	next := c
	next.lane, next.position = m.Lane, m.Position

	if m.Rate != 0 {
		if err := ValidateRate(m.Rate); err != nil {
			return c, tlc.Invalid(op, "rate", m.Rate, "must be a positive finite number")
		}
		next.rate = m.Rate
	}
	return next, nil
}

// ValidateRate rejects rates the simulator cannot advance with.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return tlc.Invalid("compound.ValidateRate", "rate", rate, "must be a positive finite number")
	}
	return nil
}
