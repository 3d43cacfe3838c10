package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/san-kum/chromasim/internal/config"
	"github.com/san-kum/chromasim/internal/experiment"
)

// parseSamples reads name=rf pairs in command-line order.
func parseSamples(args []string) ([]experiment.Sample, error) {
	samples := make([]experiment.Sample, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bad sample %q: want name=rf", arg)
		}
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad rate for %s: %w", name, err)
		}
		samples = append(samples, experiment.Sample{Name: name, Rate: rate})
	}
	return samples, nil
}

func fromConfig(compounds []config.Compound) []experiment.Sample {
	samples := make([]experiment.Sample, len(compounds))
	for i, c := range compounds {
		samples[i] = experiment.Sample{Name: c.Name, Rate: c.Rate}
	}
	return samples
}

// rateSource draws random rates from a stream separate from the
// experiment's jitter, which is seeded with seed itself.
func rateSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed + 1))
}

// chooseSamples picks the analytes for a run: explicit args win, then a
// random draw, then the named preset, then the config file.
func chooseSamples(args []string, random int, presetName string, cfg *config.Config, seed int64) ([]experiment.Sample, error) {
	switch {
	case len(args) > 0:
		return parseSamples(args)
	case random > 0:
		return experiment.RandomSamples(rateSource(seed), random), nil
	case presetName != "":
		p, ok := config.GetPreset(presetName)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		return fromConfig(p.Compounds), nil
	default:
		return fromConfig(cfg.Compounds), nil
	}
}
