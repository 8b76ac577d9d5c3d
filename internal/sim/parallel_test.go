package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/collisim/internal/dynamo"
)

func TestEnsembleRun(t *testing.T) {
	build := func(seed int64) (*dynamo.World, error) {
		return dynamo.New(dynamo.Bounds{Width: 200, Height: 200}, []dynamo.Body{
			{ID: 0, Position: dynamo.Vec2{X: 50, Y: 100}, Velocity: dynamo.Vec2{X: float64(seed)}, Radius: 10, Mass: 1},
		})
	}

	e := NewEnsemble(build, 4, 10).WithMetrics(func() []Metric {
		return []Metric{&countingMetric{}}
	})
	results, err := e.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Metrics["count"] != 10 {
			t.Errorf("run %d: metric saw %v steps", i, r.Metrics["count"])
		}
		// speed equals the seed
		want := 0.5 * float64(10+i) * float64(10+i)
		if r.InitialEnergy != want {
			t.Errorf("run %d: expected energy %v, got %v", i, want, r.InitialEnergy)
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(int64) (*dynamo.World, error) { return nil, boom }, 3, 0)
	if _, err := e.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0}); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
