package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/collisim/internal/dynamo"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances w in fixed steps of cfg.Dt for cfg.Duration of simulated
// time. The context is checked between steps, never inside one.
func (s *Simulator) Run(ctx context.Context, w *dynamo.World, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	every := max(cfg.RecordEvery, 1)
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := w.TotalCollisions()
	t := 0.0
	result.InitialEnergy = w.TotalEnergy()
	result.Samples = append(result.Samples, sampleOf(w, 0, t, 0, 0))

	var runErr error
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		res, err := w.Step(cfg.Dt)
		if err != nil {
			runErr = fmt.Errorf("step %d: %w", i, err)
			break
		}
		t += cfg.Dt
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(w, res, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, res, t)
		}

		if cfg.ValidateState && !w.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Samples = append(result.Samples, sampleOf(w, i+1, t, res.Collisions, w.TotalCollisions()-start))
		}
	}

	result.Final = w.Bodies()
	result.TotalCollisions = w.TotalCollisions() - start
	result.FinalEnergy = w.TotalEnergy()
	if result.InitialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.FinalEnergy-result.InitialEnergy) / math.Abs(result.InitialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	slog.Debug("run finished", "result", result)
	return result, runErr
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 1) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps w until cfg.Duration elapses or callback returns
// false. callback sees the world before every step.
func (s *Simulator) RunWithCallback(ctx context.Context, w *dynamo.World, cfg Config, callback func(*dynamo.World, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(w, t) {
			return nil
		}

		res, err := w.Step(cfg.Dt)
		if err != nil {
			return err
		}
		t += cfg.Dt

		for _, obs := range s.observers {
			obs.OnStep(w, res, t)
		}

		if cfg.ValidateState && !w.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}

// ClampDt replaces a wall-clock frame delta longer than two frames with a
// single frame, so a stalled renderer never hands the engine a huge step.
// Negative deltas from a clock going backwards become zero.
func ClampDt(dt, frame float64) float64 {
	switch {
	case dt > 2*frame:
		return frame
	case dt < 0 || math.IsNaN(dt):
		return 0
	}
	return dt
}
