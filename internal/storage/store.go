package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/entropywalk/internal/config"
	"github.com/san-kum/entropywalk/internal/heatmap"
	"github.com/san-kum/entropywalk/internal/sim"
)

// ErrRunNotFound is returned when a run id has no metadata on disk.
var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps run summaries under a base directory, one sub-directory per
// run. Walker trails are never written.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	Ticks     int                `json:"ticks"`
	Config    *config.Config     `json:"config"`
	Lanes     []sim.LaneSnapshot `json:"lanes"`
}

// Lane returns the stored summary of the named lane.
func (m *RunMetadata) Lane(name string) (sim.LaneSnapshot, bool) {
	if i := m.laneIndex(name); i >= 0 {
		return m.Lanes[i], true
	}
	return sim.LaneSnapshot{}, false
}

func (m *RunMetadata) laneIndex(name string) int {
	for i, l := range m.Lanes {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// Save writes metadata.json, series.csv and one heatmap CSV per lane, and
// returns the new run id.
func (s *Store) Save(label string, cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.allocate(label, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: now,
		Ticks:     result.Ticks,
		Config:    cfg,
		Lanes:     result.Lanes,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, "series.csv"), result.Series); err != nil {
		return "", err
	}

	for i, lane := range result.Lanes {
		if err := writeCSV(filepath.Join(runDir, heatmapFile(i, lane.Name)), lane.Heatmap.Cells()); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) allocate(label string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", sanitize(label), now.Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	var rows []sim.Sample
	if err := readCSV(filepath.Join(s.baseDir, runID, "series.csv"), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadHeatmap rebuilds the stored heatmap of one lane.
func (s *Store) LoadHeatmap(runID, lane string) (heatmap.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return heatmap.Snapshot{}, err
	}
	idx := meta.laneIndex(lane)
	if idx < 0 {
		return heatmap.Snapshot{}, fmt.Errorf("%w: lane %s in %s", ErrRunNotFound, lane, runID)
	}

	var cells []heatmap.CellCount
	if err := readCSV(filepath.Join(s.baseDir, runID, heatmapFile(idx, lane)), &cells); err != nil {
		return heatmap.Snapshot{}, err
	}
	return heatmap.FromCells(meta.Config.CellSize, cells)
}

// heatmapFile is keyed by the lane's position in the metadata, so lanes whose
// names sanitize alike never share a file.
func heatmapFile(idx int, lane string) string {
	return fmt.Sprintf("heatmap_%d_%s.csv", idx, sanitize(lane))
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeCSV(path string, rows any) error {
	return writeFile(path, func(f *os.File) error {
		return gocsv.Marshal(rows, f)
	})
}

// writeFile creates path, runs write and reports the close error when the
// write itself succeeded.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}
