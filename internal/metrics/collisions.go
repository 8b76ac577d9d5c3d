package metrics

import (
	"math"

	"github.com/san-kum/collisim/internal/dynamo"
)

// CollisionRate is the number of resolved pairs per simulated second.
type CollisionRate struct {
	name       string
	collisions int
	elapsed    float64
	last       float64
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(_ *dynamo.World, res dynamo.StepResult, t float64) {
	c.collisions += res.Collisions
	c.elapsed += t - c.last
	c.last = t
}

func (c *CollisionRate) Value() float64 {
	if c.elapsed <= 0 {
		return 0
	}
	return float64(c.collisions) / c.elapsed
}

func (c *CollisionRate) Reset() {
	c.collisions = 0
	c.elapsed = 0
	c.last = 0
}

// Impulse is the mean |j| exchanged per approaching contact. Separating
// contacts carry no impulse and are not counted.
type Impulse struct {
	name    string
	sum     float64
	samples int
}

func NewImpulse() *Impulse {
	return &Impulse{name: "mean_impulse"}
}

func (i *Impulse) Name() string { return i.name }

func (i *Impulse) Observe(_ *dynamo.World, res dynamo.StepResult, _ float64) {
	for _, c := range res.Contacts {
		if c.Separating {
			continue
		}
		i.sum += math.Abs(c.Impulse)
		i.samples++
	}
}

func (i *Impulse) Value() float64 {
	if i.samples == 0 {
		return 0
	}
	return i.sum / float64(i.samples)
}

func (i *Impulse) Reset() {
	i.sum = 0
	i.samples = 0
}
