package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/tlc"
)

type fixedSource struct{ v float64 }

func (f fixedSource) Float64() float64 { return f.v }

type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

const eps = 1e-12

func TestGenerateSolvent(t *testing.T) {
	s, err := Generate(compound.Solvent().MotionParams(), 10, true, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if s.Len() != 12 || len(s.X) != 12 {
		t.Fatalf("expected 12 points, got x=%d y=%d", len(s.X), len(s.Y))
	}

	for i := 0; i < 10; i++ {
		if s.Y[i] != float64(i) {
			t.Errorf("y[%d] = %v, want %d", i, s.Y[i], i)
		}
	}
	for i := 10; i < 12; i++ {
		if s.Y[i] != 9 {
			t.Errorf("tail y[%d] = %v, want 9", i, s.Y[i])
		}
	}
	for i, x := range s.X {
		if x != 0 {
			t.Errorf("solvent x[%d] = %v, want 0", i, x)
		}
	}
}

func TestGenerateAnalyte(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := compound.Params{Lane: 1, Position: 0, Rate: 0.5}

	s, err := Generate(p, 8, false, rng)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	want := []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 3.5, 3.5}
	if s.Len() != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), s.Len())
	}
	for i := range want {
		if s.Y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, s.Y[i], want[i])
		}
	}
	for i, x := range s.X {
		if x < 0.95-eps || x > 1.05+eps {
			t.Errorf("x[%d] = %v outside [0.95, 1.05]", i, x)
		}
	}
}

func TestGenerateProperties(t *testing.T) {
	tests := []struct {
		name    string
		p       compound.Params
		frames  int
		solvent bool
	}{
		{"solvent", compound.Params{Lane: 0, Position: 0, Rate: 1}, 100, true},
		{"slow analyte", compound.Params{Lane: 3, Position: 0, Rate: 0.1}, 37, false},
		{"fast analyte", compound.Params{Lane: 5, Position: 2, Rate: 1.3}, 200, false},
		{"single frame", compound.Params{Lane: 2, Position: 0, Rate: 0.7}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			s, err := Generate(tt.p, tt.frames, tt.solvent, rng)
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}

			n := tt.frames + tt.frames/4
			if len(s.X) != n || len(s.Y) != n {
				t.Fatalf("len = (%d, %d), want %d", len(s.X), len(s.Y), n)
			}

			for i := 0; i < tt.frames; i++ {
				if s.Y[i] != tt.p.Position+float64(i)*tt.p.Rate {
					t.Errorf("y[%d] = %v, want %v", i, s.Y[i], tt.p.Position+float64(i)*tt.p.Rate)
				}
			}

			lastX, lastY := s.X[tt.frames-1], s.Y[tt.frames-1]
			for i := tt.frames; i < n; i++ {
				if s.X[i] != lastX || s.Y[i] != lastY {
					t.Errorf("tail[%d] = (%v, %v), want (%v, %v)", i, s.X[i], s.Y[i], lastX, lastY)
				}
			}

			lane := float64(tt.p.Lane)
			for i, x := range s.X {
				if tt.solvent && x != lane {
					t.Errorf("solvent x[%d] = %v, want %v", i, x, lane)
				}
				if math.Abs(x-lane) > DefaultJitter+eps {
					t.Errorf("x[%d] = %v exceeds jitter bound around %v", i, x, lane)
				}
			}
		})
	}
}

func TestGenerateJitterBounds(t *testing.T) {
	p := compound.Params{Lane: 2, Rate: 0.5}

	low, err := Generate(p, 4, false, fixedSource{0})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if math.Abs(low.X[0]-1.95) > eps {
		t.Errorf("draw 0 gave x=%v, want 1.95", low.X[0])
	}

	high, err := Generate(p, 4, false, fixedSource{0.999999})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if high.X[0] > 2.05 || high.X[0] < 2.04 {
		t.Errorf("draw ~1 gave x=%v, want just below 2.05", high.X[0])
	}
}

func TestGenerateJitterStaysInsideBand(t *testing.T) {
	for lane := 0; lane <= compound.MaxAnalytes; lane++ {
		for _, u := range []float64{0, 1e-17, 0.5, 0.999999, math.Nextafter(1, 0)} {
			s, err := Generate(compound.Params{Lane: lane, Rate: 1}, 2, false, fixedSource{u})
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			for i, x := range s.X {
				if d := math.Abs(x - float64(lane)); d > DefaultJitter {
					t.Errorf("lane %d draw %v: |x[%d]-lane| = %.20f > %v", lane, u, i, d, DefaultJitter)
				}
			}
		}
	}
}

func TestGenerateTailFreezesLastJitter(t *testing.T) {
	src := &seqSource{vals: []float64{0.1, 0.9, 0.3, 0.7}}
	s, err := Generate(compound.Params{Lane: 1, Rate: 1}, 4, false, src)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if src.i != 4 {
		t.Errorf("expected 4 draws, got %d", src.i)
	}
	if s.X[4] != s.X[3] {
		t.Errorf("tail x = %v, want last jittered x %v", s.X[4], s.X[3])
	}
}

func TestGenerateDeterministicY(t *testing.T) {
	p := compound.Params{Lane: 4, Rate: 0.25}

	a, _ := Generate(p, 50, false, rand.New(rand.NewSource(1)))
	b, _ := Generate(p, 50, false, rand.New(rand.NewSource(2)))
	c, _ := Generate(p, 50, false, rand.New(rand.NewSource(1)))

	for i := range a.Y {
		if a.Y[i] != b.Y[i] {
			t.Fatalf("y differs between seeds at %d", i)
		}
		if a.X[i] != c.X[i] {
			t.Fatalf("x differs for the same seed at %d", i)
		}
	}
}

func TestGenerateInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		p       compound.Params
		frames  int
		solvent bool
		src     Source
	}{
		{"no compound", compound.Params{}, 10, false, rng},
		{"zero frames", compound.Params{Lane: 1, Rate: 0.5}, 0, false, rng},
		{"negative frames", compound.Params{Lane: 1, Rate: 0.5}, -3, false, rng},
		{"zero rate", compound.Params{Lane: 1, Position: 2}, 10, false, rng},
		{"negative rate", compound.Params{Lane: 1, Rate: -1}, 10, false, rng},
		{"NaN rate", compound.Params{Lane: 1, Rate: math.NaN()}, 10, false, rng},
		{"Inf position", compound.Params{Lane: 1, Position: math.Inf(-1), Rate: 1}, 10, false, rng},
		{"analyte without source", compound.Params{Lane: 1, Rate: 0.5}, 10, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.p, tt.frames, tt.solvent, tt.src)
			if !errors.Is(err, tlc.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestSimulatorRun(t *testing.T) {
	compounds := []compound.Compound{
		compound.Solvent(),
		compound.Analyte("caffeine", 1, 0.6),
		compound.Analyte("aspirin", 2, 0.3),
	}

	s := New(rand.New(rand.NewSource(3)))
	entries, err := s.Run(context.Background(), compounds, 20)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for i, e := range entries {
		if e.Name != compounds[i].Name() {
			t.Errorf("entry %d = %s, want %s", i, e.Name, compounds[i].Name())
		}
		if e.Lane != compounds[i].Lane() {
			t.Errorf("entry %d lane = %d, want %d", i, e.Lane, compounds[i].Lane())
		}
		if e.Series.Len() != 25 {
			t.Errorf("entry %d length = %d, want 25", i, e.Series.Len())
		}
	}

	if !entries[0].Solvent || entries[1].Solvent {
		t.Error("solvent flag not propagated")
	}
}

func TestSimulatorRunEmpty(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)))

	if _, err := s.Run(context.Background(), nil, 10); !errors.Is(err, tlc.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSimulatorRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(rand.New(rand.NewSource(1)))
	_, err := s.Run(ctx, []compound.Compound{compound.Solvent()}, 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatorWithJitter(t *testing.T) {
	s := New(fixedSource{0}, WithJitter(0))
	entries, err := s.Run(context.Background(), []compound.Compound{compound.Analyte("a", 3, 1)}, 8)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, x := range entries[0].Series.X {
		if x != 3 {
			t.Errorf("x[%d] = %v, want 3 with jitter disabled", i, x)
		}
	}
}
