package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/chromasim/internal/compound"
	"github.com/san-kum/chromasim/internal/tlc"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the directory holding runID's files.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type CompoundMeta struct {
	Name string  `json:"name"`
	Lane int     `json:"lane"`
	Rate float64 `json:"rate"`
}

type RunMetadata struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Seed       int64          `json:"seed"`
	FrameCount int            `json:"frame_count"`
	Compounds  []CompoundMeta `json:"compounds"`
	Artifact   string         `json:"artifact,omitempty"`
}

// MetaFor describes compounds for a run record.
func MetaFor(compounds []compound.Compound) []CompoundMeta {
	out := make([]CompoundMeta, 0, len(compounds))
	for _, c := range compounds {
		out = append(out, CompoundMeta{Name: c.Name(), Lane: c.Lane(), Rate: c.Rate()})
	}
	return out
}

// Save writes meta and entries under a fresh run id and returns it. meta.ID
// and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, entries []tlc.Entry) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir := "", ""
	for i := 0; ; i++ {
		runID = fmt.Sprintf("tlc_%d", now.Unix())
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", runID, i)
		}
		runDir = s.Dir(runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSeries(csvFile, entries); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteSeries writes entries as CSV: one row per frame, an x and y column
// per entry.
func WriteSeries(out io.Writer, entries []tlc.Entry) error {
	w := csv.NewWriter(out)

	if len(entries) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"frame"}
	rows := 0
	for _, e := range entries {
		header = append(header, e.Name+"_x", e.Name+"_y")
		if e.Series.Len() > rows {
			rows = e.Series.Len()
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i)}
		for _, e := range entries {
			if i >= e.Series.Len() {
				row = append(row, "", "")
				continue
			}
			x, y := e.Series.At(i)
			row = append(row,
				strconv.FormatFloat(x, 'g', -1, 64),
				strconv.FormatFloat(y, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	dirs, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		meta, err := s.Load(d.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads the series of runID back into entries. Lanes come from
// the run metadata when present and fall back to column order.
func (s *Store) LoadSeries(runID string) ([]tlc.Entry, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []tlc.Entry{}, nil
	}

	header := records[0]
	if len(header) < 3 || header[0] != "frame" || len(header)%2 != 1 {
		return nil, fmt.Errorf("%s: malformed header %v", runID, header)
	}

	lanes := map[string]int{}
	if meta, err := s.Load(runID); err == nil {
		for _, c := range meta.Compounds {
			lanes[c.Name] = c.Lane
		}
	}

	entries := make([]tlc.Entry, 0, len(header)/2)
	for col := 1; col < len(header); col += 2 {
		name := strings.TrimSuffix(header[col], "_x")
		lane, ok := lanes[name]
		if !ok {
			lane = len(entries)
		}
		entries = append(entries, tlc.Entry{
			Name:    name,
			Lane:    lane,
			Solvent: name == compound.SolventName,
		})
	}

	for _, record := range records[1:] {
		for k := range entries {
			col := 1 + 2*k
			if col+1 >= len(record) || record[col] == "" {
				continue
			}
			x, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", runID, err)
			}
			y, err := strconv.ParseFloat(record[col+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", runID, err)
			}
			entries[k].Series.X = append(entries[k].Series.X, x)
			entries[k].Series.Y = append(entries[k].Series.Y, y)
		}
	}
	return entries, nil
}
