package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/collisim/internal/dynamo"
)

func newWorld(t *testing.T, bodies ...dynamo.Body) *dynamo.World {
	t.Helper()
	w, err := dynamo.New(dynamo.Bounds{Width: 100, Height: 100}, bodies)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func TestEnergy(t *testing.T) {
	w := newWorld(t, dynamo.Body{ID: 1, Position: dynamo.Vec2{X: 50, Y: 50}, Velocity: dynamo.Vec2{X: 3, Y: 4}, Radius: 1, Mass: 2})
	m := NewEnergy()

	m.Observe(w, dynamo.StepResult{}, 0)
	m.Observe(w, dynamo.StepResult{}, 0.1)
	if m.Value() != 25 {
		t.Errorf("expected mean energy 25, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	for _, vx := range []float64{10, 11, 9.5} {
		w := newWorld(t, dynamo.Body{Position: dynamo.Vec2{X: 50, Y: 50}, Velocity: dynamo.Vec2{X: vx}, Radius: 1, Mass: 2})
		m.Observe(w, dynamo.StepResult{}, 0)
	}
	// 0.5·2·11² = 121 against 100
	if math.Abs(m.Value()-0.21) > 1e-12 {
		t.Errorf("expected max drift 0.21, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestCollisionRate(t *testing.T) {
	m := NewCollisionRate()
	w := newWorld(t)

	m.Observe(w, dynamo.StepResult{Collisions: 3}, 0.5)
	m.Observe(w, dynamo.StepResult{Collisions: 1}, 1.0)
	if m.Value() != 4 {
		t.Errorf("expected 4 collisions/s, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero rate after reset")
	}
}

func TestImpulse(t *testing.T) {
	m := NewImpulse()
	res := dynamo.StepResult{Contacts: []dynamo.Contact{
		{Impulse: -4},
		{Impulse: 2},
		{Separating: true},
	}}
	m.Observe(newWorld(t), res, 0)
	if m.Value() != 3 {
		t.Errorf("expected mean impulse 3, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(DefaultTolerance)
	if m.Value() != 1 {
		t.Error("no samples should count as fully contained")
	}

	clean := newWorld(t, dynamo.Body{ID: 1, Position: dynamo.Vec2{X: 20, Y: 20}, Radius: 5, Mass: 1})
	overlapping := newWorld(t,
		dynamo.Body{ID: 1, Position: dynamo.Vec2{X: 20, Y: 20}, Radius: 5, Mass: 1},
		dynamo.Body{ID: 2, Position: dynamo.Vec2{X: 25, Y: 20}, Radius: 5, Mass: 1},
	)

	m.Observe(clean, dynamo.StepResult{}, 0)
	m.Observe(clean, dynamo.StepResult{}, 0)
	m.Observe(clean, dynamo.StepResult{}, 0)
	m.Observe(overlapping, dynamo.StepResult{}, 0)
	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}
