package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/sim"
)

// Experiment is one configured world plus the simulator that drives it.
type Experiment struct {
	cfg       *config.Config
	gen       dynamo.Generator
	world     *dynamo.World
	simulator *sim.Simulator
}

// New validates cfg and builds the world for its scenario.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := NewRegistry()
	gen, err := reg.GetScenario(cfg)
	if err != nil {
		return nil, err
	}

	w, err := dynamo.NewFromGenerator(Bounds(cfg), gen)
	if err != nil {
		return nil, fmt.Errorf("build %s world: %w", cfg.Scenario, err)
	}

	return &Experiment{cfg: cfg, gen: gen, world: w, simulator: sim.New()}, nil
}

// Setup attaches metrics; with none given it uses the registry defaults.
func (e *Experiment) Setup(metrics []sim.Metric) {
	if metrics == nil {
		metrics = NewRegistry().DefaultMetrics()
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	slog.Info("run started",
		"scenario", e.cfg.Scenario,
		"bodies", e.world.Len(),
		"dt", e.cfg.Dt,
		"duration", e.cfg.Duration,
		"seed", e.cfg.Seed,
	)
	return e.simulator.Run(ctx, e.world, e.SimConfig())
}

// Reset regenerates the initial bodies and zeroes the world's counters.
func (e *Experiment) Reset() error {
	return e.world.ResetFrom(e.gen)
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		RecordEvery:   e.cfg.RecordEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) World() *dynamo.World        { return e.world }
func (e *Experiment) Generator() dynamo.Generator { return e.gen }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func Bounds(cfg *config.Config) dynamo.Bounds {
	return dynamo.Bounds{Width: cfg.Width, Height: cfg.Height}
}
