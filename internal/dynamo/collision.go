package dynamo

// Pair identifies two bodies by ID, lower creation index first.
type Pair struct {
	A, B int
}

// Contact describes one resolved collision.
type Contact struct {
	Pair
	Normal         Vec2    // unit vector from B towards A
	Overlap        float64 // penetration depth corrected positionally
	NormalVelocity float64 // (vA - vB) · Normal before the impulse
	Impulse        float64 // impulse scalar j, zero when Separating
	Separating     bool    // velocities were left untouched
}

// Overlaps reports whether the disks of a and b touch or interpenetrate.
func Overlaps(a, b *Body) bool {
	d := a.Position.Sub(b.Position)
	return d.Length() <= a.Radius+b.Radius
}

// Resolve separates two overlapping bodies and exchanges an elastic impulse
// along the contact normal. Positional correction is mass weighted: each
// body moves by the other's share of the total mass. Coincident centres use
// the fixed axis (1, 0) at distance 1.
func Resolve(a, b *Body) Contact {
	d := a.Position.Sub(b.Position)
	dist := d.Length()
	if dist == 0 {
		d = Vec2{X: 1, Y: 0}
		dist = 1
	}

	n := d.Scale(1.0 / dist)

	overlap := (a.Radius + b.Radius) - dist
	total := a.Mass + b.Mass

	a.Position = a.Position.Add(n.Scale(overlap * b.Mass / total))
	b.Position = b.Position.Sub(n.Scale(overlap * a.Mass / total))

	rv := a.Velocity.Sub(b.Velocity)
	vn := rv.Dot(n)

	c := Contact{
		Pair:           Pair{A: a.ID, B: b.ID},
		Normal:         n,
		Overlap:        overlap,
		NormalVelocity: vn,
	}

	// already moving apart
	if vn > 0 {
		c.Separating = true
		return c
	}

	j := 2 * vn / total
	a.Velocity = a.Velocity.Sub(n.Scale(j * b.Mass))
	b.Velocity = b.Velocity.Add(n.Scale(j * a.Mass))
	c.Impulse = j

	return c
}
