// Package experiment runs one simulation request end to end: it validates
// the requested compounds, seeds a private random source, simulates and
// renders.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/sim"
	"github.com/san-kum/chromasim/internal/tlc"
)

const DefaultFrameCount = 100

type Config struct {
	Samples    []Sample
	FrameCount int
	// Seed 0 draws a seed from the clock.
	Seed int64
	// Jitter overrides sim.DefaultJitter when positive.
	Jitter float64
}

type Result struct {
	Compounds  []compound.Compound
	Entries    []tlc.Entry
	FrameCount int
	Seed       int64
}

type Experiment struct {
	cfg        Config
	seed       int64
	randSource *rand.Rand
}

func New(cfg Config) *Experiment {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.FrameCount == 0 {
		cfg.FrameCount = DefaultFrameCount
	}
	return &Experiment{
		cfg:        cfg,
		seed:       seed,
		randSource: rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed actually used, which differs from Config.Seed when
// that was 0.
func (e *Experiment) Seed() int64 { return e.seed }

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	compounds, err := Assemble(e.cfg.Samples)
	if err != nil {
		return nil, err
	}

	var opts []sim.Option
	if e.cfg.Jitter > 0 {
		opts = append(opts, sim.WithJitter(e.cfg.Jitter))
	}
	entries, err := sim.New(e.randSource, opts...).Run(ctx, compounds, e.cfg.FrameCount)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	return &Result{
		Compounds:  compounds,
		Entries:    entries,
		FrameCount: e.cfg.FrameCount,
		Seed:       e.seed,
	}, nil
}

// Render labels r's lanes after res and encodes the animation. r is
// modified, so callers use one renderer per result.
func (e *Experiment) Render(ctx context.Context, r *render.Renderer, res *Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("render: no result")
	}
	if err := r.SetTicks(Labels(res.Compounds)); err != nil {
		return nil, err
	}
	return r.Render(ctx, res.Entries, res.FrameCount)
}
