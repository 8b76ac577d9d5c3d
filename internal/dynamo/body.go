package dynamo

import "math"

// Bounds is the containment box. Its origin is (0, 0).
type Bounds struct {
	Width  float64
	Height float64
}

func (b Bounds) Validate() error {
	if !(b.Width > 0) || !(b.Height > 0) || math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return ErrInvalidBounds
	}
	return nil
}

// Contains reports whether the whole disk of body lies inside b, allowing
// an overshoot of eps on every edge.
func (b Bounds) Contains(body Body, eps float64) bool {
	p, r := body.Position, body.Radius
	return p.X-r >= -eps && p.X+r <= b.Width+eps &&
		p.Y-r >= -eps && p.Y+r <= b.Height+eps
}

type Body struct {
	ID       int
	Position Vec2
	Velocity Vec2
	Radius   float64
	Mass     float64
}

// Integrate advances the body at constant velocity.
func (b *Body) Integrate(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// Reflect clamps the body back inside bounds and flips the velocity
// component of every axis it touched. Each axis clamps at most once per
// call; when a body crosses both edges of an axis the low edge wins.
func (b *Body) Reflect(bounds Bounds) {
	if b.Position.X-b.Radius <= 0 {
		b.Position.X = b.Radius
		b.Velocity.X = -b.Velocity.X
	} else if b.Position.X+b.Radius >= bounds.Width {
		b.Position.X = bounds.Width - b.Radius
		b.Velocity.X = -b.Velocity.X
	}

	if b.Position.Y-b.Radius <= 0 {
		b.Position.Y = b.Radius
		b.Velocity.Y = -b.Velocity.Y
	} else if b.Position.Y+b.Radius >= bounds.Height {
		b.Position.Y = bounds.Height - b.Radius
		b.Velocity.Y = -b.Velocity.Y
	}
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

func (b *Body) Momentum() Vec2 {
	return b.Velocity.Scale(b.Mass)
}

func (b *Body) Speed() float64 {
	return b.Velocity.Length()
}

// Validate checks the construction invariants of a single body.
func (b *Body) Validate(bounds Bounds) error {
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return ErrInvalidRadius
	}
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return ErrInvalidMass
	}
	if !b.Position.IsValid() || !b.Velocity.IsValid() {
		return ErrInvalidState
	}
	if !bounds.Contains(*b, 0) {
		return ErrOutOfBounds
	}
	return nil
}
