package metrics

import "github.com/san-kum/collisim/internal/dynamo"

// DefaultTolerance is the overshoot allowed before a step counts as
// violating the no-overlap or containment invariant.
const DefaultTolerance = 1e-6

// Containment is the fraction of observed steps after which no pair
// overlaps and every disk lies inside the bounds, within tolerance.
type Containment struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(w *dynamo.World, _ dynamo.StepResult, _ float64) {
	c.samples++
	if !w.CheckInvariants(c.tolerance).OK() {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
