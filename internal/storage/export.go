package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/entropywalk/internal/sim"
)

type ExportData struct {
	Run    RunMetadata  `json:"run"`
	Series []sim.Sample `json:"series"`
}

// Export gathers a run's metadata and series for ExportJSON.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Series: series}, nil
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteSeriesCSV writes the series with a header row.
func WriteSeriesCSV(w io.Writer, series []sim.Sample) error {
	return gocsv.Marshal(series, w)
}
