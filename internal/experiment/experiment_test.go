package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/collisim/internal/config"
)

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("classic")
	cfg.Duration = 10
	cfg.Dt = 0.01

	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	exp.Setup(nil)

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", res.StepsTaken)
	}
	for _, name := range []string{"energy", "energy_drift", "collision_rate", "mean_impulse", "containment"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.Metrics["energy_drift"] > 1e-9 {
		t.Errorf("energy drift %e", res.Metrics["energy_drift"])
	}
}

func TestExperimentReset(t *testing.T) {
	exp, err := New(config.GetPreset("gas"))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	before := exp.World().Bodies()

	for i := 0; i < 50; i++ {
		exp.World().Step(0.01)
	}
	if err := exp.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	after := exp.World().Bodies()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("body %d not restored", i)
		}
	}
	if exp.World().TotalCollisions() != 0 {
		t.Error("reset must zero the collision counter")
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetMetrics("nope"); err == nil {
		t.Error("expected error for unknown metric set")
	}
	for _, set := range r.ListMetricSets() {
		m, err := r.GetMetrics(set)
		if err != nil || len(m) == 0 {
			t.Errorf("metric set %s: %v", set, err)
		}
	}
	if len(r.ListScenarios()) != 4 {
		t.Errorf("expected 4 scenarios, got %v", r.ListScenarios())
	}
}
