// Package config holds the CLI's solver configuration and presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAbsTol = 1e-8
	DefaultRelTol = 1e-8
	DefaultHeight = 10
	DefaultWidth  = 80
)

type Config struct {
	Problem   string  `yaml:"problem"`
	Algorithm string  `yaml:"algorithm"`
	AbsTol    float64 `yaml:"abstol"`
	RelTol    float64 `yaml:"reltol"`
	SaveStep  float64 `yaml:"save_step"`
	Plot      Plot    `yaml:"plot"`
}

type Plot struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem: "decay",
		AbsTol:  DefaultAbsTol,
		RelTol:  DefaultRelTol,
		Plot:    Plot{Height: DefaultHeight, Width: DefaultWidth},
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
