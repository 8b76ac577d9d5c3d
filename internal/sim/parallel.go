package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/collisim/internal/dynamo"
)

// WorldFactory builds an independent world for one ensemble member.
type WorldFactory func(seed int64) (*dynamo.World, error)

// Ensemble runs independently seeded worlds concurrently. Every run owns
// its world and its metric instances.
type Ensemble struct {
	build      WorldFactory
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

func NewEnsemble(build WorldFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a constructor called once per run.
func (e *Ensemble) WithMetrics(newMetrics func() []Metric) *Ensemble {
	e.newMetrics = newMetrics
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		seed := e.seedStart + int64(i)
		g.Go(func() error {
			w, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			s := New()
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, w, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
