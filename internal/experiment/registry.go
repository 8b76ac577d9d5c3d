package experiment

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/metrics"
	"github.com/san-kum/collisim/internal/scenario"
	"github.com/san-kum/collisim/internal/sim"
)

type Registry struct {
	metricSets map[string]func() []sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metricSets: make(map[string]func() []sim.Metric),
	}

	r.metricSets["default"] = func() []sim.Metric {
		return []sim.Metric{
			metrics.NewEnergy(),
			metrics.NewEnergyDrift(),
			metrics.NewCollisionRate(),
			metrics.NewImpulse(),
			metrics.NewContainment(metrics.DefaultTolerance),
		}
	}
	r.metricSets["conservation"] = func() []sim.Metric {
		return []sim.Metric{
			metrics.NewEnergy(),
			metrics.NewEnergyDrift(),
		}
	}
	r.metricSets["collisions"] = func() []sim.Metric {
		return []sim.Metric{
			metrics.NewCollisionRate(),
			metrics.NewImpulse(),
		}
	}

	return r
}

func (r *Registry) GetScenario(cfg *config.Config) (dynamo.Generator, error) {
	return scenario.FromConfig(cfg)
}

func (r *Registry) ListScenarios() []string {
	return scenario.Names()
}

func (r *Registry) GetMetrics(set string) ([]sim.Metric, error) {
	fn, ok := r.metricSets[set]
	if !ok {
		return nil, fmt.Errorf("unknown metric set: %s", set)
	}
	return fn(), nil
}

func (r *Registry) ListMetricSets() []string {
	return slices.Sorted(maps.Keys(r.metricSets))
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return r.metricSets["default"]()
}
