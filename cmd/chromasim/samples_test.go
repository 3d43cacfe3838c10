package main

import (
	"math/rand"
	"testing"

	"github.com/san-kum/chromasim/internal/config"
)

func TestParseSamples(t *testing.T) {
	got, err := parseSamples([]string{"caffeine=0.4", "aspirin=.75"})
	if err != nil {
		t.Fatalf("parseSamples: %v", err)
	}
	if len(got) != 2 || got[0].Name != "caffeine" || got[0].Rate != 0.4 || got[1].Rate != 0.75 {
		t.Errorf("got %+v", got)
	}
}

func TestParseSamplesRejectsMalformed(t *testing.T) {
	for _, arg := range []string{"caffeine", "=0.4", "caffeine=fast"} {
		if _, err := parseSamples([]string{arg}); err == nil {
			t.Errorf("%q: expected error", arg)
		}
	}
}

func TestChooseSamplesPrecedence(t *testing.T) {
	cfg := config.DefaultConfig()

	got, err := chooseSamples([]string{"a=0.5"}, 3, "inks", cfg, 1)
	if err != nil || len(got) != 1 || got[0].Name != "a" {
		t.Errorf("args should win: %+v, %v", got, err)
	}

	got, err = chooseSamples(nil, 3, "inks", cfg, 1)
	if err != nil || len(got) != 3 || got[0].Name != "comp1" {
		t.Errorf("random should beat preset: %+v, %v", got, err)
	}

	inks, _ := config.GetPreset("inks")
	got, err = chooseSamples(nil, 0, "inks", cfg, 1)
	if err != nil || len(got) != len(inks.Compounds) {
		t.Errorf("preset: %+v, %v", got, err)
	}

	got, err = chooseSamples(nil, 0, "", cfg, 1)
	if err != nil || len(got) != len(cfg.Compounds) {
		t.Errorf("config: %+v, %v", got, err)
	}

	if _, err := chooseSamples(nil, 0, "nope", cfg, 1); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestRandomRatesIndependentOfJitter(t *testing.T) {
	const seed = 42
	got, err := chooseSamples(nil, 3, "", config.DefaultConfig(), seed)
	if err != nil {
		t.Fatalf("chooseSamples: %v", err)
	}

	jitter := rand.New(rand.NewSource(seed))
	same := 0
	for _, s := range got {
		if s.Rate == 1-jitter.Float64() {
			same++
		}
	}
	if same == len(got) {
		t.Errorf("rates %+v replay the jitter stream of seed %d", got, seed)
	}
}
