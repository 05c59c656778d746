// Package config loads application settings and custom level files, both
// plain yaml on disk.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	DefaultFPS          = 60
	DefaultPxPerUnit    = 50.0
	DefaultDataDir      = ".rollingball"
)

// Config is the application configuration. Zero-value fields fall back to
// defaults at load time, so partial files are fine.
type Config struct {
	DataDir   string       `yaml:"data_dir"`
	LevelsDir string       `yaml:"levels_dir"`
	FPS       int          `yaml:"fps"`
	PxPerUnit float64      `yaml:"px_per_unit"`
	Window    WindowConfig `yaml:"window"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		FPS:       DefaultFPS,
		PxPerUnit: DefaultPxPerUnit,
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
	}
}

// Load reads a yaml config file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.PxPerUnit <= 0 {
		c.PxPerUnit = DefaultPxPerUnit
	}
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWindowWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultWindowHeight
	}
}
