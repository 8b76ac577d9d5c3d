package dynamo

import (
	"fmt"
	"math"
)

// World owns a body collection inside fixed bounds and advances it.
type World struct {
	bounds     Bounds
	bodies     []Body
	collisions int
	steps      int
	elapsed    float64
}

// New validates bounds and bodies and returns a world owning a copy of
// bodies. Bodies keep their order; it decides pair resolution order.
func New(bounds Bounds, bodies []Body) (*World, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	w := &World{bounds: bounds}
	if err := w.Reset(bodies); err != nil {
		return nil, err
	}
	return w, nil
}

// NewFromGenerator builds a world from the bodies produced by gen.
func NewFromGenerator(bounds Bounds, gen Generator) (*World, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	w := &World{bounds: bounds}
	if err := w.ResetFrom(gen); err != nil {
		return nil, err
	}
	return w, nil
}

// ValidateBodies checks every construction invariant for a body collection.
func ValidateBodies(bounds Bounds, bodies []Body) error {
	seen := make(map[int]struct{}, len(bodies))
	for i := range bodies {
		b := &bodies[i]
		if err := b.Validate(bounds); err != nil {
			return &BodyError{Index: i, ID: b.ID, Wrapped: err}
		}
		if _, dup := seen[b.ID]; dup {
			return &BodyError{Index: i, ID: b.ID, Wrapped: ErrDuplicateID}
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// Reset replaces the whole body collection and zeroes the collision
// counter. On error the world is left unchanged.
func (w *World) Reset(bodies []Body) error {
	if err := ValidateBodies(w.bounds, bodies); err != nil {
		return err
	}
	w.bodies = make([]Body, len(bodies))
	copy(w.bodies, bodies)
	w.collisions = 0
	w.steps = 0
	w.elapsed = 0
	return nil
}

// ResetFrom replaces the body collection with a fresh one from gen.
func (w *World) ResetFrom(gen Generator) error {
	bodies, err := gen.Generate(w.bounds)
	if err != nil {
		return fmt.Errorf("generate bodies: %w", err)
	}
	return w.Reset(bodies)
}

// Step integrates every body, reflects it off the walls, then sweeps all
// pairs i < j in ascending order resolving each overlapping one. A step
// always runs to completion; an invalid dt rejects it before anything moves.
func (w *World) Step(dt float64) (StepResult, error) {
	if !(dt >= 0) || math.IsInf(dt, 1) {
		return StepResult{}, fmt.Errorf("%w: got %v", ErrInvalidTimestep, dt)
	}

	for i := range w.bodies {
		w.bodies[i].Integrate(dt)
		w.bodies[i].Reflect(w.bounds)
	}

	var res StepResult
	n := len(w.bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := &w.bodies[i], &w.bodies[j]
			if !Overlaps(a, b) {
				continue
			}
			res.Contacts = append(res.Contacts, Resolve(a, b))
			res.Collisions++
			w.collisions++
		}
	}

	w.steps++
	w.elapsed += dt
	return res, nil
}

// Bodies returns a copy of the current body collection.
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Body(i int) Body     { return w.bodies[i] }
func (w *World) Len() int             { return len(w.bodies) }
func (w *World) Bounds() Bounds       { return w.bounds }
func (w *World) TotalCollisions() int { return w.collisions }
func (w *World) Steps() int           { return w.steps }
func (w *World) Elapsed() float64     { return w.elapsed }

// TotalEnergy is the kinetic energy summed over all bodies.
func (w *World) TotalEnergy() float64 {
	e := 0.0
	for i := range w.bodies {
		e += w.bodies[i].KineticEnergy()
	}
	return e
}

// Momentum is the vector sum of m·v over all bodies.
func (w *World) Momentum() Vec2 {
	var p Vec2
	for i := range w.bodies {
		p = p.Add(w.bodies[i].Momentum())
	}
	return p
}

// IsValid reports whether every body has finite position and velocity.
func (w *World) IsValid() bool {
	for i := range w.bodies {
		if !w.bodies[i].Position.IsValid() || !w.bodies[i].Velocity.IsValid() {
			return false
		}
	}
	return true
}

// CheckInvariants counts overlapping pairs and escaped bodies with
// tolerance eps.
func (w *World) CheckInvariants(eps float64) Violations {
	var v Violations
	n := len(w.bodies)
	for i := 0; i < n; i++ {
		a := &w.bodies[i]
		if !w.bounds.Contains(*a, eps) {
			v.Escapes++
		}
		for j := i + 1; j < n; j++ {
			b := &w.bodies[j]
			if a.Position.Distance(b.Position) < a.Radius+b.Radius-eps {
				v.Overlaps++
			}
		}
	}
	return v
}
