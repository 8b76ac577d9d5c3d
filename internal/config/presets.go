package config

import (
	"maps"
	"slices"
)

var Presets = map[string]*Config{
	"classic": {
		Scenario: "classic", Width: 800, Height: 600, Dt: DefaultDt, FrameDt: DefaultFrameDt,
		Duration: 30, RecordEvery: 1,
	},
	"billiards": {
		Scenario: "lattice", Width: 900, Height: 450, Dt: 1.0 / 120, FrameDt: DefaultFrameDt,
		Duration: 20, Seed: 7, RecordEvery: 2,
		Bodies: BodiesConfig{Count: 16, RadiusMin: 14, RadiusMax: 14, SpeedMin: 180, SpeedMax: 180, Density: DefaultDensity},
	},
	"gas": {
		Scenario: "random", Width: 800, Height: 600, Dt: 1.0 / 120, FrameDt: DefaultFrameDt,
		Duration: 20, Seed: 11, RecordEvery: 4,
		Bodies: BodiesConfig{Count: 60, RadiusMin: 6, RadiusMax: 10, SpeedMin: 80, SpeedMax: 260, Density: DefaultDensity},
	},
	"heavy_light": {
		Scenario: "explicit", Width: 800, Height: 600, Dt: DefaultDt, FrameDt: DefaultFrameDt,
		Duration: 30, RecordEvery: 1,
		Explicit: []BodySpec{
			{X: 400, Y: 300, VX: 20, VY: -10, Radius: 60, Mass: 25},
			{X: 100, Y: 100, VX: 180, VY: 120, Radius: 12, Mass: 0.2},
			{X: 700, Y: 100, VX: -160, VY: 140, Radius: 12, Mass: 0.2},
			{X: 100, Y: 500, VX: 150, VY: -170, Radius: 12, Mass: 0.2},
			{X: 700, Y: 500, VX: -190, VY: -110, Radius: 12, Mass: 0.2},
		},
	},
	"crowded": {
		Scenario: "random", Width: 800, Height: 600, Dt: DefaultDt, FrameDt: DefaultFrameDt,
		Duration: 20, Seed: 3, RecordEvery: 2,
		Bodies: BodiesConfig{Count: 40, RadiusMin: 14, RadiusMax: 26, SpeedMin: 60, SpeedMax: 200, Density: DefaultDensity},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
