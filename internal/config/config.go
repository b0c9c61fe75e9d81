package config

import (
	"fmt"
	"os"

	"github.com/san-kum/entropywalk/internal/walk"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWalkers        = 15
	DefaultCellSize       = 10
	DefaultTicks          = 2000
	DefaultFPS            = 30
	DefaultSampleEvery    = 10
	DefaultEntropyWindow  = 1000
	DefaultDistanceWindow = 500
	DefaultDataDir        = ".entropywalk"
	DefaultLogLevel       = "info"
)

// Config describes one comparison run.
type Config struct {
	Populations    []Population `yaml:"populations" json:"populations"`
	CellSize       int          `yaml:"cell_size" json:"cell_size"`
	ReturnRadius   int          `yaml:"return_radius" json:"return_radius"`
	Ticks          int          `yaml:"ticks" json:"ticks"`
	FPS            int          `yaml:"fps" json:"fps"`
	SampleEvery    int          `yaml:"sample_every" json:"sample_every"`
	EntropyWindow  int          `yaml:"entropy_window" json:"entropy_window"`
	DistanceWindow int          `yaml:"distance_window" json:"distance_window"`
	DataDir        string       `yaml:"data_dir" json:"data_dir"`
	LogLevel       string       `yaml:"log_level" json:"log_level"`
}

// Population is one group of walkers sharing an entropy source.
type Population struct {
	Name    string     `yaml:"name" json:"name"`
	Source  string     `yaml:"source" json:"source"`
	Seed    uint64     `yaml:"seed" json:"seed"`
	Walkers int        `yaml:"walkers" json:"walkers"`
	Origin  walk.Point `yaml:"origin" json:"origin"`
	// Script is the direction sequence for the replay source.
	Script string `yaml:"script,omitempty" json:"script,omitempty"`
	// FaultEvery makes every nth draw fail. Zero disables injection.
	FaultEvery int `yaml:"fault_every,omitempty" json:"fault_every,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Populations: []Population{
			{Name: "pseudo", Source: "pseudo", Seed: 1, Walkers: DefaultWalkers},
			{Name: "hybrid", Source: "hybrid", Walkers: DefaultWalkers},
		},
		CellSize:       DefaultCellSize,
		Ticks:          DefaultTicks,
		FPS:            DefaultFPS,
		SampleEvery:    DefaultSampleEvery,
		EntropyWindow:  DefaultEntropyWindow,
		DistanceWindow: DefaultDistanceWindow,
		DataDir:        DefaultDataDir,
		LogLevel:       DefaultLogLevel,
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
	if err := cfg.Validate(); err != nil {
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

// Validate reports the first invalid field as a walk.ConfigurationError.
func (c *Config) Validate() error {
	if len(c.Populations) == 0 {
		return walk.InvalidConfig("populations", "at least one population is required")
	}
	if c.CellSize <= 0 {
		return walk.InvalidConfig("cell_size", "must be positive, got %d", c.CellSize)
	}
	if c.ReturnRadius < 0 {
		return walk.InvalidConfig("return_radius", "must not be negative, got %d", c.ReturnRadius)
	}
	if c.Ticks < 0 {
		return walk.InvalidConfig("ticks", "must not be negative, got %d", c.Ticks)
	}
	if c.FPS <= 0 {
		return walk.InvalidConfig("fps", "must be positive, got %d", c.FPS)
	}
	if c.SampleEvery <= 0 {
		return walk.InvalidConfig("sample_every", "must be positive, got %d", c.SampleEvery)
	}
	if c.EntropyWindow <= 0 || c.DistanceWindow <= 0 {
		return walk.InvalidConfig("window", "entropy and distance windows must be positive")
	}

	seen := make(map[string]bool, len(c.Populations))
	for i, p := range c.Populations {
		field := fmt.Sprintf("populations[%d]", i)
		if p.Name == "" {
			return walk.InvalidConfig(field+".name", "must not be empty")
		}
		if seen[p.Name] {
			return walk.InvalidConfig(field+".name", "duplicate population %q", p.Name)
		}
		seen[p.Name] = true
		if p.Source == "" {
			return walk.InvalidConfig(field+".source", "must not be empty")
		}
		if p.Walkers <= 0 {
			return walk.InvalidConfig(field+".walkers", "must be positive, got %d", p.Walkers)
		}
		if p.FaultEvery < 0 {
			return walk.InvalidConfig(field+".fault_every", "must not be negative, got %d", p.FaultEvery)
		}
		if p.Source == "replay" && p.Script == "" {
			return walk.InvalidConfig(field+".script", "replay source needs a script")
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Populations = make([]Population, len(c.Populations))
	copy(cp.Populations, c.Populations)
	return &cp
}

// SetWalkers overrides the walker count of every population.
func (c *Config) SetWalkers(n int) {
	for i := range c.Populations {
		c.Populations[i].Walkers = n
	}
}
