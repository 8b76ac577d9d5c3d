// Package analysis summarizes recorded runs.
//
// The package works on the stored time series and body snapshots:
//
//   - [Summarize]: mean, spread and relative drift of any series
//   - [SummarizeRun]: the same for energy and momentum of a whole run
//   - [CollisionIntervals]: spacing between samples that saw collisions
//   - [SpeedHistogram]: distribution of body speeds, with an ASCII rendering
//
// # Conservation Check
//
// An elastic run should keep its energy to rounding error:
//
//	s := analysis.Summarize(energies)
//	if s.RelDrift > 1e-9 {
//	    // something leaked energy
//	}
package analysis
