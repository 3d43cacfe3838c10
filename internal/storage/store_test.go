package storage

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/sim"
	"github.com/san-kum/chromasim/internal/tlc"
)

func plate(t *testing.T, frameCount int) ([]compound.Compound, []tlc.Entry) {
	t.Helper()
	compounds := []compound.Compound{
		compound.Solvent(),
		compound.Analyte("aspirin", 1, 0.56),
		compound.Analyte("caffeine", 2, 0.12),
	}
	entries, err := sim.New(rand.New(rand.NewSource(1))).Run(context.Background(), compounds, frameCount)
	if err != nil {
		t.Fatal(err)
	}
	return compounds, entries
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	compounds, entries := plate(t, 12)
	runID, err := st.Save(RunMetadata{
		Seed:       42,
		FrameCount: 12,
		Compounds:  MetaFor(compounds),
		Artifact:   "plate.gif",
	}, entries)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "tlc_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID || meta.Seed != 42 || meta.FrameCount != 12 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if len(meta.Compounds) != 3 || meta.Compounds[2].Name != "caffeine" || meta.Compounds[2].Rate != 0.12 {
		t.Errorf("compounds mismatch: %+v", meta.Compounds)
	}
	if meta.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	loaded, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, entries) {
		t.Errorf("series not round-tripped:\n got %+v\nwant %+v", loaded, entries)
	}
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	_, entries := plate(t, 4)

	a, err := st.Save(RunMetadata{}, entries)
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(RunMetadata{}, entries)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two saves shared id %s", a)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	_, entries := plate(t, 4)

	for i := 0; i < 3; i++ {
		if _, err := st.Save(RunMetadata{Seed: int64(i)}, entries); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(st.baseDir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadSeries("missing"); err == nil {
		t.Error("expected error for missing series")
	}
}

func TestWriteSeries(t *testing.T) {
	entries := []tlc.Entry{
		{Name: "solvent", Solvent: true, Series: tlc.Series{X: []float64{0, 0}, Y: []float64{0, 1}}},
		{Name: "a", Lane: 1, Series: tlc.Series{X: []float64{1.01, 0.98}, Y: []float64{0, 0.5}}},
	}

	var buf bytes.Buffer
	if err := WriteSeries(&buf, entries); err != nil {
		t.Fatal(err)
	}

	want := "frame,solvent_x,solvent_y,a_x,a_y\n0,0,0,1.01,0\n1,0,1,0.98,0.5\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestLoadSeries_MalformedHeader(t *testing.T) {
	st := New(t.TempDir())
	dir := st.Dir("bad")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "series.csv"), []byte("time,x0\n0,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadSeries("bad"); err == nil {
		t.Error("expected error for malformed header")
	}
}
