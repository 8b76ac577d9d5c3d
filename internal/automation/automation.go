package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/experiment"
	"github.com/san-kum/collisim/internal/sim"
	"github.com/san-kum/collisim/internal/storage"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyBatch    = errors.New("automation: batch has no runs")
	ErrUnknownPreset = errors.New("automation: unknown preset")
	ErrNotSweepable  = errors.New("automation: scenario has a fixed body set")
	ErrEmptySweep    = errors.New("automation: sweep needs at least one body count and one seed")
)

// Batch is a scripted sequence of runs.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun starts from a preset (or the defaults) and applies the fields
// present under config on top of it.
type BatchRun struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

// BatchResult is one finished run. RunID is empty when nothing was stored.
type BatchResult struct {
	Name   string
	RunID  string
	Config *config.Config
	Result *sim.Result
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(batch.Runs) == 0 {
		return nil, ErrEmptyBatch
	}
	return &batch, nil
}

// Resolve builds the effective config of a run.
func (r *BatchRun) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		if cfg = config.GetPreset(r.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, r.Preset)
		}
	}
	if !r.Config.IsZero() {
		if err := r.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunBatch executes every run in order. Results are stored when store is
// non-nil. It stops at the first failing run and returns what finished.
func RunBatch(ctx context.Context, batch *Batch, store *storage.Store) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Runs))

	for i := range batch.Runs {
		run := &batch.Runs[i]
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run%d", i+1)
		}

		cfg, err := run.Resolve()
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("run %d (%s) setup: %w", i+1, name, err)
		}
		exp.Setup(nil)

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}

		br := BatchResult{Name: name, Config: cfg, Result: result}
		if store != nil {
			if br.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("run %d (%s) save: %w", i+1, name, err)
			}
		}
		results = append(results, br)

		slog.Info("batch run finished",
			"batch", batch.Name,
			"run", name,
			"index", i+1,
			"of", len(batch.Runs),
			"id", br.RunID,
			"result", result,
		)
	}

	return results, nil
}

// Sweep runs a random or lattice scenario for every body count, each with
// Seeds consecutive seeds starting at SeedStart.
type Sweep struct {
	Base      *config.Config
	Counts    []int
	SeedStart int64
	Seeds     int
}

// SweepPoint summarizes one (count, seed) run.
type SweepPoint struct {
	Bodies      int
	Seed        int64
	Steps       int
	Collisions  int
	EnergyDrift float64
	Containment float64
}

// RunSweep runs the seeds of each body count concurrently, one count at a
// time. Points are ordered by count, then seed.
func RunSweep(ctx context.Context, sweep *Sweep) ([]SweepPoint, error) {
	if len(sweep.Counts) == 0 || sweep.Seeds < 1 {
		return nil, ErrEmptySweep
	}
	switch sweep.Base.Scenario {
	case "random", "lattice":
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSweepable, sweep.Base.Scenario)
	}
	if err := sweep.Base.Validate(); err != nil {
		return nil, err
	}

	reg := experiment.NewRegistry()
	points := make([]SweepPoint, 0, len(sweep.Counts)*sweep.Seeds)

	for i, n := range sweep.Counts {
		build := func(seed int64) (*dynamo.World, error) {
			cfg := sweep.Base.Clone()
			cfg.Bodies.Count = n
			cfg.Seed = seed
			exp, err := experiment.New(cfg)
			if err != nil {
				return nil, err
			}
			return exp.World(), nil
		}

		simCfg := sim.Config{
			Dt:          sweep.Base.Dt,
			Duration:    sweep.Base.Duration,
			RecordEvery: max(sweep.Base.Steps(), 1),
		}
		results, err := sim.NewEnsemble(build, sweep.Seeds, sweep.SeedStart).
			WithMetrics(reg.DefaultMetrics).
			Run(ctx, simCfg)
		if err != nil {
			return points, fmt.Errorf("bodies=%d: %w", n, err)
		}

		for j, res := range results {
			points = append(points, SweepPoint{
				Bodies:      n,
				Seed:        sweep.SeedStart + int64(j),
				Steps:       res.StepsTaken,
				Collisions:  res.TotalCollisions,
				EnergyDrift: res.EnergyDrift,
				Containment: res.Metrics["containment"],
			})
		}

		slog.Info("sweep point finished", "bodies", n, "seeds", sweep.Seeds, "count", i+1, "of", len(sweep.Counts))
	}

	return points, nil
}

// SweepStats counts points whose relative energy drift stayed within tol.
func SweepStats(points []SweepPoint, tol float64) (conserved int, drifted int) {
	for _, p := range points {
		if math.Abs(p.EnergyDrift) <= tol {
			conserved++
		} else {
			drifted++
		}
	}
	return
}
