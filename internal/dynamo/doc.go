// Package dynamo provides the rigid-disk collision engine.
//
// The package defines the primitives of the simulation and the step driver
// that advances them:
//
//   - [Vec2]: 2D vector value type
//   - [Body]: point-mass disk with position, velocity, radius and mass
//   - [Bounds]: axis-aligned box with its origin at (0, 0)
//   - [Overlaps] and [Resolve]: pairwise detection and impulse response
//   - [World]: owns a body collection and advances it with [World.Step]
//   - [Generator]: contract for scenario initializers used by [World.ResetFrom]
//
// # Example
//
//	w, err := dynamo.New(dynamo.Bounds{Width: 800, Height: 600}, bodies)
//	if err != nil {
//	    return err
//	}
//	res, _ := w.Step(1.0 / 60)
//	fmt.Println(res.Collisions, w.TotalCollisions(), w.TotalEnergy())
//
// # Collision Model
//
// Velocities are constant between collisions. Walls reflect perfectly. Pairs
// are swept in ascending index order (i < j) every step, which is O(n²) and
// makes multi-body contacts order dependent but reproducible. Restitution is
// fixed at 1.
//
// # Thread Safety
//
// World instances are NOT thread-safe. A step always runs to completion. To
// run several simulations in parallel give each goroutine its own World.
package dynamo
