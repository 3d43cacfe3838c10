package experiment

import (
	"fmt"
	"unicode/utf8"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/tlc"
)

// Sample is one user-supplied analyte: a display name and its
// retention factor.
type Sample struct {
	Name string
	Rate float64
}

// Assemble builds the plate: the solvent on lane 0 followed by one analyte
// per sample on lanes 1..n, in sample order.
func Assemble(samples []Sample) ([]compound.Compound, error) {
	const op = "experiment.Assemble"

	if len(samples) > compound.MaxAnalytes {
		return nil, tlc.Invalid(op, "samples", len(samples), fmt.Sprintf("at most %d analytes fit on a plate", compound.MaxAnalytes))
	}

	out := make([]compound.Compound, 0, len(samples)+1)
	out = append(out, compound.Solvent())

	seen := make(map[string]bool, len(samples))
	for i, s := range samples {
		switch {
		case s.Name == "":
			return nil, tlc.Invalid(op, "name", s.Name, "must not be empty")
		case !utf8.ValidString(s.Name):
			return nil, tlc.Invalid(op, "name", s.Name, "is not valid UTF-8")
		case utf8.RuneCountInString(s.Name) > compound.MaxNameLen:
			return nil, tlc.Invalid(op, "name", s.Name, fmt.Sprintf("longer than %d characters", compound.MaxNameLen))
		case s.Name == compound.SolventName:
			return nil, tlc.Invalid(op, "name", s.Name, "is reserved")
		case seen[s.Name]:
			return nil, tlc.Invalid(op, "name", s.Name, "is duplicated")
		}
		if err := compound.ValidateRate(s.Rate); err != nil {
			return nil, tlc.Invalid(op, "rate", s.Rate, fmt.Sprintf("of %s must be a positive finite number", s.Name))
		}
		seen[s.Name] = true
		out = append(out, compound.Analyte(s.Name, i+1, s.Rate))
	}
	return out, nil
}

// Labels returns the lane tick labels for compounds. Lanes without a
// compound keep their compN default.
func Labels(compounds []compound.Compound) []string {
	labels := make([]string, render.TickCount)
	copy(labels, render.DefaultTicks)
	for _, c := range compounds {
		if c.Lane() >= 0 && c.Lane() < len(labels) {
			labels[c.Lane()] = c.Name()
		}
	}
	return labels
}

// RandomSamples draws n analytes named comp1..compN with rates in (0, 1].
func RandomSamples(src interface{ Float64() float64 }, n int) []Sample {
	if n > compound.MaxAnalytes {
		n = compound.MaxAnalytes
	}
	samples := make([]Sample, 0, n)
	for i := 1; i <= n; i++ {
		samples = append(samples, Sample{
			Name: fmt.Sprintf("comp%d", i),
			Rate: 1 - src.Float64(),
		})
	}
	return samples
}
