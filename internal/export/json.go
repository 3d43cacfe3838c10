package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/chromasim/internal/storage"
	"github.com/san-kum/chromasim/internal/tlc"
)

type ExportData struct {
	ID         string                 `json:"id,omitempty"`
	Seed       int64                  `json:"seed"`
	FrameCount int                    `json:"frame_count"`
	Steps      int                    `json:"steps"`
	Compounds  []storage.CompoundMeta `json:"compounds"`
	Entries    []EntryData            `json:"entries"`
}

type EntryData struct {
	Name    string    `json:"name"`
	Lane    int       `json:"lane"`
	Solvent bool      `json:"solvent"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
}

func newExportData(meta storage.RunMetadata, entries []tlc.Entry) ExportData {
	data := ExportData{
		ID:         meta.ID,
		Seed:       meta.Seed,
		FrameCount: meta.FrameCount,
		Compounds:  meta.Compounds,
		Entries:    make([]EntryData, len(entries)),
	}
	for i, e := range entries {
		if e.Series.Len() > data.Steps {
			data.Steps = e.Series.Len()
		}
		data.Entries[i] = EntryData{
			Name:    e.Name,
			Lane:    e.Lane,
			Solvent: e.Solvent,
			X:       e.Series.X,
			Y:       e.Series.Y,
		}
	}
	return data
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, entries []tlc.Entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, entries))
}

func ExportJSON(path string, meta storage.RunMetadata, entries []tlc.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, entries)
}
