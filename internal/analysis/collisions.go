package analysis

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/collisim/internal/sim"
	"github.com/san-kum/collisim/internal/storage"
)

// Intervals describes the spacing between sampled collisions.
type Intervals struct {
	Count int // samples that recorded at least one collision
	Mean  float64
	Min   float64
	Max   float64
}

// CollisionIntervals measures the simulated time between consecutive
// samples that recorded collisions. With record_every > 1 the per-sample
// count only covers the recording step, so gaps are an upper bound.
func CollisionIntervals(samples []sim.Sample) Intervals {
	var times []float64
	for _, s := range samples {
		if s.Collisions > 0 {
			times = append(times, s.Time)
		}
	}

	iv := Intervals{Count: len(times)}
	if len(times) < 2 {
		return iv
	}

	gaps := make([]float64, len(times)-1)
	floats.SubTo(gaps, times[1:], times[:len(times)-1])
	iv.Mean = stat.Mean(gaps, nil)
	iv.Min = floats.Min(gaps)
	iv.Max = floats.Max(gaps)
	return iv
}

type Histogram struct {
	Edges  []float64 // len(Counts)+1 bin edges
	Counts []float64
}

// SpeedHistogram bins body speeds into equal-width bins spanning the
// observed range.
func SpeedHistogram(bodies []storage.BodyRecord, bins int) Histogram {
	if len(bodies) == 0 || bins < 1 {
		return Histogram{}
	}

	speeds := make([]float64, len(bodies))
	for i, b := range bodies {
		speeds[i] = b.Speed
	}
	slices.Sort(speeds)

	lo, hi := speeds[0], speeds[len(speeds)-1]
	if hi == lo {
		hi = lo + 1
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	// the top edge is exclusive in stat.Histogram
	edges[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, edges, speeds, nil)
	return Histogram{Edges: edges, Counts: counts}
}

// HistogramToASCII renders one bar per bin, scaled to width characters.
func HistogramToASCII(h Histogram, width int) string {
	if len(h.Counts) == 0 {
		return ""
	}

	peak := floats.Max(h.Counts)
	var sb strings.Builder
	for i, c := range h.Counts {
		n := 0
		if peak > 0 {
			n = int(math.Round(c / peak * float64(width)))
		}
		fmt.Fprintf(&sb, "%8.1f-%-8.1f │%s %d\n", h.Edges[i], h.Edges[i+1], strings.Repeat("█", n), int(c))
	}
	return sb.String()
}
