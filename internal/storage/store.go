package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	bodiesFile   = "bodies.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Bodies      int                `json:"bodies"`
	Steps       int                `json:"steps"`
	Collisions  int                `json:"collisions"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Config      *config.Config     `json:"config"`
}

// BodyRecord is one body of the final snapshot.
type BodyRecord struct {
	ID     int     `csv:"id" json:"id"`
	X      float64 `csv:"x" json:"x"`
	Y      float64 `csv:"y" json:"y"`
	VX     float64 `csv:"vx" json:"vx"`
	VY     float64 `csv:"vy" json:"vy"`
	Radius float64 `csv:"radius" json:"radius"`
	Mass   float64 `csv:"mass" json:"mass"`
	Speed  float64 `csv:"speed" json:"speed"`
	Energy float64 `csv:"energy" json:"energy"`
}

func BodyRecords(bodies []dynamo.Body) []BodyRecord {
	out := make([]BodyRecord, len(bodies))
	for i := range bodies {
		b := &bodies[i]
		out[i] = BodyRecord{
			ID:     b.ID,
			X:      b.Position.X,
			Y:      b.Position.Y,
			VX:     b.Velocity.X,
			VY:     b.Velocity.Y,
			Radius: b.Radius,
			Mass:   b.Mass,
			Speed:  b.Speed(),
			Energy: b.KineticEnergy(),
		}
	}
	return out
}

func (r BodyRecord) Body() dynamo.Body {
	return dynamo.Body{
		ID:       r.ID,
		Position: dynamo.Vec2{X: r.X, Y: r.Y},
		Velocity: dynamo.Vec2{X: r.VX, Y: r.VY},
		Radius:   r.Radius,
		Mass:     r.Mass,
	}
}

// Save writes a run directory holding the metadata, the sampled series and
// the final body snapshot, and returns its id.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.mkRunDir(fmt.Sprintf("%s_%d", cfg.Scenario, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    cfg.Scenario,
		Timestamp:   now,
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Bodies:      len(result.Final),
		Steps:       result.StepsTaken,
		Collisions:  result.TotalCollisions,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
		Config:      cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, seriesFile), result.Samples); err != nil {
		return "", err
	}
	records := BodyRecords(result.Final)
	if err := writeCSV(filepath.Join(runDir, bodiesFile), records); err != nil {
		return "", err
	}

	slog.Info("run saved", "id", runID, "dir", runDir, "samples", len(result.Samples))
	return runID, nil
}

// mkRunDir creates a fresh directory for base, suffixing it when a run
// with the same id already exists.
func (s *Store) mkRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			slog.Debug("skipping run", "dir", entry.Name(), "error", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
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
	var samples []sim.Sample
	if err := s.readCSV(runID, seriesFile, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *Store) LoadBodies(runID string) ([]BodyRecord, error) {
	var records []BodyRecord
	if err := s.readCSV(runID, bodiesFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) readCSV(runID, name string, out any) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", runID, name, err)
	}
	return nil
}
