package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth       = 800.0
	DefaultHeight      = 600.0
	DefaultDt          = 1.0 / 60
	DefaultFrameDt     = 1.0 / 60
	DefaultDuration    = 20.0
	DefaultSeed        = 42
	DefaultRecordEvery = 1
	DefaultBodies      = 12
	DefaultRadiusMin   = 12.0
	DefaultRadiusMax   = 30.0
	DefaultSpeedMin    = 40.0
	DefaultSpeedMax    = 220.0
	DefaultDensity     = 0.00035
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Scenario    string       `yaml:"scenario"`
	Width       float64      `yaml:"width"`
	Height      float64      `yaml:"height"`
	Dt          float64      `yaml:"dt"`
	FrameDt     float64      `yaml:"frame_dt"`
	Duration    float64      `yaml:"duration"`
	Seed        int64        `yaml:"seed"`
	RecordEvery int          `yaml:"record_every"`
	Bodies      BodiesConfig `yaml:"bodies"`
	Explicit    []BodySpec   `yaml:"explicit,omitempty"`
}

// BodiesConfig drives the generated scenarios. Mass is density·π·r².
type BodiesConfig struct {
	Count     int     `yaml:"count"`
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
	SpeedMin  float64 `yaml:"speed_min"`
	SpeedMax  float64 `yaml:"speed_max"`
	Density   float64 `yaml:"density"`
}

// BodySpec is one hand-placed body of the explicit scenario.
type BodySpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    "random",
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Dt:          DefaultDt,
		FrameDt:     DefaultFrameDt,
		Duration:    DefaultDuration,
		Seed:        DefaultSeed,
		RecordEvery: DefaultRecordEvery,
		Bodies: BodiesConfig{
			Count:     DefaultBodies,
			RadiusMin: DefaultRadiusMin,
			RadiusMax: DefaultRadiusMax,
			SpeedMin:  DefaultSpeedMin,
			SpeedMax:  DefaultSpeedMax,
			Density:   DefaultDensity,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked by callers.
func (c *Config) Clone() *Config {
	out := *c
	if c.Explicit != nil {
		out.Explicit = make([]BodySpec, len(c.Explicit))
		copy(out.Explicit, c.Explicit)
	}
	return &out
}

// Steps is the number of fixed steps a headless run of Duration takes.
func (c *Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

// Validate checks the fields every scenario depends on. Body-level checks
// are left to the engine, which reports them against the generated bodies.
func (c *Config) Validate() error {
	switch {
	case !positive(c.Width) || !positive(c.Height):
		return fmt.Errorf("%w: bounds %vx%v", ErrInvalid, c.Width, c.Height)
	case !positive(c.Dt):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	case !positive(c.FrameDt):
		return fmt.Errorf("%w: frame_dt must be positive, got %v", ErrInvalid, c.FrameDt)
	case c.Duration < 0 || math.IsNaN(c.Duration):
		return fmt.Errorf("%w: duration must be non-negative, got %v", ErrInvalid, c.Duration)
	case c.RecordEvery < 1:
		return fmt.Errorf("%w: record_every must be at least 1, got %d", ErrInvalid, c.RecordEvery)
	}

	switch c.Scenario {
	case "classic":
		return nil
	case "explicit":
		if len(c.Explicit) == 0 {
			return fmt.Errorf("%w: explicit scenario without bodies", ErrInvalid)
		}
		return nil
	}

	b := c.Bodies
	switch {
	case b.Count < 0:
		return fmt.Errorf("%w: negative body count %d", ErrInvalid, b.Count)
	case !positive(b.RadiusMin) || b.RadiusMax < b.RadiusMin:
		return fmt.Errorf("%w: radius range [%v, %v]", ErrInvalid, b.RadiusMin, b.RadiusMax)
	case b.SpeedMin < 0 || b.SpeedMax < b.SpeedMin:
		return fmt.Errorf("%w: speed range [%v, %v]", ErrInvalid, b.SpeedMin, b.SpeedMax)
	case !positive(b.Density):
		return fmt.Errorf("%w: density must be positive, got %v", ErrInvalid, b.Density)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
