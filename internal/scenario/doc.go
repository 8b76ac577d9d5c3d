// Package scenario builds initial body collections for a world.
//
// Every generator implements dynamo.Generator and is deterministic for a
// given seed, so a reset replays the same starting state. Generated bodies
// are numbered 0..n-1 in creation order, which is also the order the engine
// sweeps pairs in.
//
//	gen, err := scenario.FromConfig(cfg)
//	w, err := dynamo.NewFromGenerator(bounds, gen)
package scenario
