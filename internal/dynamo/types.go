package dynamo

// Generator produces the initial body collection for a world. Scenario
// initializers implement it; the engine only relies on the returned bodies
// satisfying the construction invariants.
type Generator interface {
	Generate(bounds Bounds) ([]Body, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(bounds Bounds) ([]Body, error)

func (f GeneratorFunc) Generate(bounds Bounds) ([]Body, error) { return f(bounds) }

// StepResult reports what happened during one call to World.Step.
type StepResult struct {
	Collisions int
	Contacts   []Contact
}

// Pairs returns the colliding pairs in resolution order.
func (r StepResult) Pairs() []Pair {
	pairs := make([]Pair, len(r.Contacts))
	for i, c := range r.Contacts {
		pairs[i] = c.Pair
	}
	return pairs
}

// Violations counts bodies breaking the post-step invariants.
type Violations struct {
	Overlaps int // pairs closer than the sum of their radii minus eps
	Escapes  int // bodies whose disk leaves the bounds by more than eps
}

func (v Violations) OK() bool { return v.Overlaps == 0 && v.Escapes == 0 }
