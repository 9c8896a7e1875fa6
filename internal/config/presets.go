package config

import (
	"sort"

	"phaseplane/internal/model"
)

// Presets are ready-made parameter regimes for the predator-prey portrait.
var Presets = map[string]*Config{
	"classic": {
		Params:  model.Params{R1: 1.0, R2: 1.0, Alpha: 0.5, Beta: 0.5},
		Initial: InitialConfig{X: 1.0, Y: 1.0},
		TMax:    25.0,
	},
	"fast-prey": {
		Params:  model.Params{R1: 2.0, R2: 1.0, Alpha: 0.5, Beta: 0.5},
		Initial: InitialConfig{X: 1.0, Y: 1.0},
		TMax:    20.0,
	},
	"weak-coupling": {
		Params:  model.Params{R1: 1.0, R2: 1.0, Alpha: 0.1, Beta: 0.1},
		Initial: InitialConfig{X: 5.0, Y: 5.0},
		TMax:    40.0,
	},
	"efficient-predator": {
		Params:  model.Params{R1: 1.0, R2: 0.5, Alpha: 0.8, Beta: 0.6},
		Initial: InitialConfig{X: 1.5, Y: 0.8},
		TMax:    30.0,
	},
}

// GetPreset resolves a named preset onto the default config, so grid and
// integration settings keep sensible values unless the preset overrides
// them.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Params = p.Params
	cfg.Initial = p.Initial
	if p.TMax > 0 {
		cfg.TMax = p.TMax
	}
	if p.Step > 0 {
		cfg.Step = p.Step
	}
	if p.Bounds.XMax > p.Bounds.XMin {
		cfg.Bounds = p.Bounds
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
