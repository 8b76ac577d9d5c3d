package scenario

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand"
	"slices"

	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
)

var (
	ErrUnknown     = errors.New("scenario: unknown scenario")
	ErrCannotPlace = errors.New("scenario: cannot place body without overlap")
)

const DefaultMaxAttempts = 1000

var registry = map[string]func(cfg *config.Config) dynamo.Generator{
	"random": func(cfg *config.Config) dynamo.Generator {
		b := cfg.Bodies
		return Random{
			Count:     b.Count,
			RadiusMin: b.RadiusMin,
			RadiusMax: b.RadiusMax,
			SpeedMin:  b.SpeedMin,
			SpeedMax:  b.SpeedMax,
			Density:   b.Density,
			Seed:      cfg.Seed,
		}
	},
	"classic": func(*config.Config) dynamo.Generator { return Classic{} },
	"lattice": func(cfg *config.Config) dynamo.Generator {
		b := cfg.Bodies
		return Lattice{
			Count:  b.Count,
			Radius: b.RadiusMin,
			Speed:  b.SpeedMax,
			Mass:   DiskMass(b.Density, b.RadiusMin),
			Seed:   cfg.Seed,
		}
	},
	"explicit": func(cfg *config.Config) dynamo.Generator { return Explicit{Bodies: cfg.Explicit} },
}

// FromConfig returns the generator named by cfg.Scenario.
func FromConfig(cfg *config.Config) (dynamo.Generator, error) {
	fn, ok := registry[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, cfg.Scenario)
	}
	return fn(cfg), nil
}

func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// DiskMass is density·π·r².
func DiskMass(density, radius float64) float64 {
	return density * math.Pi * radius * radius
}

func heading(rng *rand.Rand, speed float64) dynamo.Vec2 {
	a := rng.Float64() * 2 * math.Pi
	return dynamo.Vec2{X: speed * math.Cos(a), Y: speed * math.Sin(a)}
}

// Random rejection-samples non-overlapping bodies fully inside the bounds,
// each with a uniformly random heading.
type Random struct {
	Count       int
	RadiusMin   float64
	RadiusMax   float64
	SpeedMin    float64
	SpeedMax    float64
	Density     float64
	Seed        int64
	MaxAttempts int // per body; DefaultMaxAttempts when zero
}

func (r Random) Generate(bounds dynamo.Bounds) ([]dynamo.Body, error) {
	rng := rand.New(rand.NewSource(r.Seed))
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	bodies := make([]dynamo.Body, 0, r.Count)
	for i := 0; i < r.Count; i++ {
		placed := false
		for try := 0; try < attempts && !placed; try++ {
			radius := r.RadiusMin + rng.Float64()*(r.RadiusMax-r.RadiusMin)
			if 2*radius >= bounds.Width || 2*radius >= bounds.Height {
				continue
			}
			b := dynamo.Body{
				ID: i,
				Position: dynamo.Vec2{
					X: radius + rng.Float64()*(bounds.Width-2*radius),
					Y: radius + rng.Float64()*(bounds.Height-2*radius),
				},
				Velocity: heading(rng, r.SpeedMin+rng.Float64()*(r.SpeedMax-r.SpeedMin)),
				Radius:   radius,
				Mass:     DiskMass(r.Density, radius),
			}
			if free(&b, bodies) {
				bodies = append(bodies, b)
				placed = true
			}
		}
		if !placed {
			return nil, fmt.Errorf("%w: body %d after %d attempts", ErrCannotPlace, i, attempts)
		}
	}
	return bodies, nil
}

func free(b *dynamo.Body, placed []dynamo.Body) bool {
	for i := range placed {
		if dynamo.Overlaps(b, &placed[i]) {
			return false
		}
	}
	return true
}

// Classic is the two-ball demo: a red ball and a lighter blue one in an
// 800x600 box.
type Classic struct{}

func (Classic) Generate(dynamo.Bounds) ([]dynamo.Body, error) {
	return []dynamo.Body{
		{ID: 0, Position: dynamo.Vec2{X: 150, Y: 150}, Velocity: dynamo.Vec2{X: 200, Y: 150}, Radius: 30, Mass: 1.0},
		{ID: 1, Position: dynamo.Vec2{X: 600, Y: 400}, Velocity: dynamo.Vec2{X: -180, Y: -120}, Radius: 25, Mass: 0.8},
	}, nil
}

// Lattice lays identical bodies out on a grid roughly matching the aspect
// ratio of the bounds, one per cell, with random headings at a fixed speed.
type Lattice struct {
	Count  int
	Radius float64
	Speed  float64
	Mass   float64
	Seed   int64
}

func (l Lattice) Generate(bounds dynamo.Bounds) ([]dynamo.Body, error) {
	if l.Count == 0 {
		return nil, nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(l.Count) * bounds.Width / bounds.Height)))
	rows := (l.Count + cols - 1) / cols
	cellW := bounds.Width / float64(cols)
	cellH := bounds.Height / float64(rows)
	if math.Min(cellW, cellH) <= 2*l.Radius {
		return nil, fmt.Errorf("%w: %dx%d cells of %.1fx%.1f for radius %v", ErrCannotPlace, cols, rows, cellW, cellH, l.Radius)
	}

	rng := rand.New(rand.NewSource(l.Seed))
	bodies := make([]dynamo.Body, l.Count)
	for i := range bodies {
		col, row := i%cols, i/cols
		bodies[i] = dynamo.Body{
			ID:       i,
			Position: dynamo.Vec2{X: (float64(col) + 0.5) * cellW, Y: (float64(row) + 0.5) * cellH},
			Velocity: heading(rng, l.Speed),
			Radius:   l.Radius,
			Mass:     l.Mass,
		}
	}
	return bodies, nil
}

// Explicit turns hand-written body specs into bodies, in order.
type Explicit struct {
	Bodies []config.BodySpec
}

func (e Explicit) Generate(dynamo.Bounds) ([]dynamo.Body, error) {
	bodies := make([]dynamo.Body, len(e.Bodies))
	for i, s := range e.Bodies {
		bodies[i] = dynamo.Body{
			ID:       i,
			Position: dynamo.Vec2{X: s.X, Y: s.Y},
			Velocity: dynamo.Vec2{X: s.VX, Y: s.VY},
			Radius:   s.Radius,
			Mass:     s.Mass,
		}
	}
	return bodies, nil
}
