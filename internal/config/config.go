package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/grid"
	"phaseplane/internal/model"
	"phaseplane/internal/portrait"
)

const (
	DefaultStep = 0.05
	DefaultDt   = 0.01
	DefaultTMax = 25.0
	DefaultX0   = 1.0
	DefaultY0   = 1.0
)

type Config struct {
	Params model.Params `yaml:"params"`
	Bounds grid.Bounds  `yaml:"bounds"`
	Step   float64      `yaml:"step"`

	Initial      InitialConfig `yaml:"initial"`
	TMax         float64       `yaml:"tmax"`
	Dt           float64       `yaml:"dt"`
	Tolerance    float64       `yaml:"tolerance"`
	Trajectories int           `yaml:"trajectories"`
	Seed         int64         `yaml:"seed"`

	Output string `yaml:"output"`
}

type InitialConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:  model.Classic(),
		Bounds:  grid.Bounds{XMin: -0.2, XMax: 5, YMin: -0.2, YMax: 5},
		Step:    DefaultStep,
		Initial: InitialConfig{X: DefaultX0, Y: DefaultY0},
		TMax:    DefaultTMax,
		Dt:      DefaultDt,
		Output:  "phase_portrait.svg",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Options translates the config into pipeline options.
func (c *Config) Options() portrait.Options {
	opts := portrait.DefaultOptions()
	opts.Bounds = c.Bounds
	opts.Step = c.Step
	opts.Initial = []dynamo.State{{c.Initial.X, c.Initial.Y}}
	opts.TMax = c.TMax
	opts.Dt = c.Dt
	if c.Tolerance > 0 {
		opts.Tol = c.Tolerance
	}
	opts.Ensemble = c.Trajectories
	opts.Seed = c.Seed
	return opts
}
