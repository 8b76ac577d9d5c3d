package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/collisim/internal/sim"
)

type Summary struct {
	N        int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
	First    float64
	Last     float64
	RelDrift float64 // max |v - first| / |first|, zero when first is zero
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{
		N:     len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		First: values[0],
		Last:  values[len(values)-1],
	}
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = values[0]
	}

	if s.First != 0 {
		s.RelDrift = math.Max(math.Abs(s.Max-s.First), math.Abs(s.Min-s.First)) / math.Abs(s.First)
	}
	return s
}

type RunSummary struct {
	Energy     Summary
	MomentumX  Summary
	MomentumY  Summary
	Collisions int
	Duration   float64
	Rate       float64 // collisions per simulated second
}

func SummarizeRun(samples []sim.Sample) RunSummary {
	n := len(samples)
	if n == 0 {
		return RunSummary{}
	}

	last := samples[n-1]
	rs := RunSummary{
		Energy:     Summarize(Energies(samples)),
		MomentumX:  Summarize(Column(samples, func(s sim.Sample) float64 { return s.MomentumX })),
		MomentumY:  Summarize(Column(samples, func(s sim.Sample) float64 { return s.MomentumY })),
		Collisions: last.Total,
		Duration:   last.Time - samples[0].Time,
	}
	if rs.Duration > 0 {
		rs.Rate = float64(rs.Collisions) / rs.Duration
	}
	return rs
}

// Column extracts one field of every sample.
func Column(samples []sim.Sample, field func(sim.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = field(s)
	}
	return out
}

func Energies(samples []sim.Sample) []float64 {
	return Column(samples, func(s sim.Sample) float64 { return s.Energy })
}
