package sim

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/collisim/internal/dynamo"
)

type Metric interface {
	Name() string
	Observe(w *dynamo.World, res dynamo.StepResult, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *dynamo.World, res dynamo.StepResult, t float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(w *dynamo.World, res dynamo.StepResult, t float64)

func (f ObserverFunc) OnStep(w *dynamo.World, res dynamo.StepResult, t float64) { f(w, res, t) }

type Config struct {
	Dt            float64
	Duration      float64
	RecordEvery   int
	ValidateState bool
}

// Sample is one row of the recorded time series.
type Sample struct {
	Step       int     `csv:"step" json:"step"`
	Time       float64 `csv:"time" json:"time"`
	Energy     float64 `csv:"energy" json:"energy"`
	MomentumX  float64 `csv:"momentum_x" json:"momentum_x"`
	MomentumY  float64 `csv:"momentum_y" json:"momentum_y"`
	Collisions int     `csv:"collisions" json:"collisions"`
	Total      int     `csv:"total_collisions" json:"total_collisions"`
}

func sampleOf(w *dynamo.World, step int, t float64, collisions, total int) Sample {
	p := w.Momentum()
	return Sample{
		Step:       step,
		Time:       t,
		Energy:     w.TotalEnergy(),
		MomentumX:  p.X,
		MomentumY:  p.Y,
		Collisions: collisions,
		Total:      total,
	}
}

type Result struct {
	Samples         []Sample
	Final           []dynamo.Body
	Metrics         map[string]float64
	StepsTaken      int
	TotalCollisions int
	InitialEnergy   float64
	FinalEnergy     float64
	EnergyDrift     float64
	Errors          []error
}

// LogValue implements slog.LogValuer for structured logging.
func (r *Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("steps", r.StepsTaken),
		slog.Int("bodies", len(r.Final)),
		slog.Int("collisions", r.TotalCollisions),
		slog.Float64("energy", r.FinalEnergy),
		slog.Float64("energy_drift", r.EnergyDrift),
	}
	if len(r.Errors) > 0 {
		attrs = append(attrs, slog.Int("errors", len(r.Errors)))
	}
	return slog.GroupValue(attrs...)
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
