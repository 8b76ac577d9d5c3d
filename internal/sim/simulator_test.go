package sim

import (
	"context"
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/san-kum/collisim/internal/dynamo"
)

type countingMetric struct {
	steps      int
	collisions int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(_ *dynamo.World, res dynamo.StepResult, _ float64) {
	c.steps++
	c.collisions += res.Collisions
}
func (c *countingMetric) Value() float64 { return float64(c.steps) }
func (c *countingMetric) Reset()         { c.steps, c.collisions = 0, 0 }

func twoBallWorld(t testing.TB) *dynamo.World {
	t.Helper()
	w, err := dynamo.New(dynamo.Bounds{Width: 800, Height: 600}, []dynamo.Body{
		{ID: 0, Position: dynamo.Vec2{X: 150, Y: 150}, Velocity: dynamo.Vec2{X: 200, Y: 150}, Radius: 30, Mass: 1.0},
		{ID: 1, Position: dynamo.Vec2{X: 600, Y: 400}, Velocity: dynamo.Vec2{X: -180, Y: -120}, Radius: 25, Mass: 0.8},
	})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func TestSimulatorRun(t *testing.T) {
	w := twoBallWorld(t)
	sim := New()
	m := &countingMetric{}
	sim.AddMetric(m)

	cfg := Config{Dt: 0.01, Duration: 10.0, RecordEvery: 10}
	result, err := sim.Run(context.Background(), w, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", result.StepsTaken)
	}
	if len(result.Samples) != 101 {
		t.Errorf("expected 101 samples, got %d", len(result.Samples))
	}
	if result.Metrics["count"] != 1000 {
		t.Errorf("metric observed %v steps", result.Metrics["count"])
	}
	if result.TotalCollisions == 0 || m.collisions != result.TotalCollisions {
		t.Errorf("collision totals disagree: metric %d, result %d", m.collisions, result.TotalCollisions)
	}

	last := result.Samples[len(result.Samples)-1]
	if last.Step != 1000 || last.Total != result.TotalCollisions {
		t.Errorf("unexpected last sample %+v", last)
	}
	if !scalar.EqualWithinRel(result.FinalEnergy, result.InitialEnergy, 1e-9) {
		t.Errorf("energy drifted from %f to %f", result.InitialEnergy, result.FinalEnergy)
	}
	if len(result.Final) != 2 {
		t.Errorf("expected final snapshot of 2 bodies, got %d", len(result.Final))
	}
}

func TestSimulatorRunCountsOnlyItsOwnCollisions(t *testing.T) {
	w := twoBallWorld(t)
	sim := New()
	cfg := Config{Dt: 0.01, Duration: 5.0}

	first, _ := sim.Run(context.Background(), w, cfg)
	second, _ := sim.Run(context.Background(), w, cfg)

	if first.TotalCollisions+second.TotalCollisions != w.TotalCollisions() {
		t.Errorf("runs %d + %d != world %d", first.TotalCollisions, second.TotalCollisions, w.TotalCollisions())
	}
}

func TestObserversSeeEveryStep(t *testing.T) {
	w := twoBallWorld(t)
	sim := New()

	var steps, contacts int
	var last float64
	sim.AddObserver(ObserverFunc(func(_ *dynamo.World, res dynamo.StepResult, t float64) {
		steps++
		contacts += len(res.Contacts)
		last = t
	}))

	result, err := sim.Run(context.Background(), w, Config{Dt: 0.01, Duration: 5.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if steps != result.StepsTaken {
		t.Errorf("observer saw %d steps, run took %d", steps, result.StepsTaken)
	}
	if contacts != result.TotalCollisions {
		t.Errorf("observer saw %d contacts, run counted %d", contacts, result.TotalCollisions)
	}
	if !scalar.EqualWithinAbs(last, 5.0, 1e-9) {
		t.Errorf("last observed time %f", last)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), twoBallWorld(t), tt.cfg)
			if err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorContextCancellation(t *testing.T) {
	sim := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, twoBallWorld(t), Config{Dt: 0.01, Duration: 100.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Error("cancelled run should return a partial result with no steps")
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New()
	calls := 0
	err := sim.RunWithCallback(context.Background(), twoBallWorld(t), Config{Dt: 0.01, Duration: 1.0}, func(w *dynamo.World, t float64) bool {
		calls++
		return calls < 10
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 10 {
		t.Errorf("expected 10 callbacks, got %d", calls)
	}
}

func TestClampDt(t *testing.T) {
	const frame = 1.0 / 60
	tests := []struct {
		name string
		dt   float64
		want float64
	}{
		{"normal", 0.016, 0.016},
		{"at limit", 2 * frame, 2 * frame},
		{"stall", 0.5, frame},
		{"negative", -0.01, 0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDt(tt.dt, frame); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func BenchmarkSimulatorRun(b *testing.B) {
	sim := New()
	cfg := Config{Dt: 0.01, Duration: 1.0}
	for i := 0; i < b.N; i++ {
		sim.Run(context.Background(), twoBallWorld(b), cfg)
	}
}
