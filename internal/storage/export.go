package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/collisim/internal/sim"
)

type ExportData struct {
	Run     *RunMetadata `json:"run"`
	Samples []sim.Sample `json:"samples"`
	Bodies  []BodyRecord `json:"bodies"`
}

// Export gathers everything stored for runID.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	bodies, err := s.LoadBodies(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: meta, Samples: samples, Bodies: bodies}, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

// WriteSeriesCSV writes samples with a header row.
func WriteSeriesCSV(w io.Writer, samples []sim.Sample) error {
	return gocsv.Marshal(samples, w)
}

func ExportCSV(path string, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteSeriesCSV(file, samples)
}
