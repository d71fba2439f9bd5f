package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EngineConfig holds the tunables of the outcome engine.
type EngineConfig struct {
	Simulation  SimulationConfig  `yaml:"simulation" envPrefix:"ODDS_SIM_"`
	Exploration ExplorationConfig `yaml:"exploration" envPrefix:"ODDS_EXPLORE_"`
	Worker      WorkerConfig      `yaml:"worker" envPrefix:"ODDS_WORKER_"`
}

// SimulationConfig holds single-fight solver settings.
type SimulationConfig struct {
	// SampleCount is the number of Monte Carlo trials per fight.
	SampleCount int `yaml:"sample_count" env:"SAMPLE_COUNT"`

	// MaxStateVisits caps states and transitions of the exact solver.
	MaxStateVisits int `yaml:"max_state_visits" env:"MAX_STATE_VISITS"`

	// MaxRounds is the round at which a fight counts as a timeout loss.
	MaxRounds int `yaml:"max_rounds" env:"MAX_ROUNDS"`

	// AmbushCritMultiplier scales the beast crit chance of an initial strike.
	AmbushCritMultiplier float64 `yaml:"ambush_crit_multiplier" env:"AMBUSH_CRIT_MULTIPLIER"`

	// Seed fixes the sampler seed. 0 derives a seed from the fight inputs.
	Seed uint64 `yaml:"seed" env:"SEED"`
}

// ExplorationConfig holds population sweep settings.
type ExplorationConfig struct {
	// SampleCount is the number of draws of the sampled sweep.
	SampleCount int `yaml:"sample_count" env:"SAMPLE_COUNT"`

	// MaxExactSamples is the largest exact sweep attempted.
	MaxExactSamples int `yaml:"max_exact_samples" env:"MAX_EXACT_SAMPLES"`
}

// WorkerConfig holds background executor settings.
type WorkerConfig struct {
	// Enabled dispatches simulations to a long-lived worker goroutine.
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// QueueSize is the number of pending jobs before dispatch falls back inline.
	QueueSize int `yaml:"queue_size" env:"QUEUE_SIZE"`
}

// DefaultConfig returns an EngineConfig with the stock engine limits.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Simulation: SimulationConfig{
			SampleCount:          10000,
			MaxStateVisits:       80000,
			MaxRounds:            500,
			AmbushCritMultiplier: 1,
		},
		Exploration: ExplorationConfig{
			SampleCount:     2000,
			MaxExactSamples: 400000,
		},
		Worker: WorkerConfig{
			Enabled:   false,
			QueueSize: 8,
		},
	}
}

// LoadConfig loads engine configuration from a YAML file and then applies
// ODDS_* environment overrides. If the file doesn't exist the defaults are
// used; a parse error returns the defaults together with the error.
func LoadConfig(path string) (*EngineConfig, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return config, fmt.Errorf("read engine config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("parse engine config: %w", err)
			}
		}
	}

	if err := env.Parse(config); err != nil {
		return config, fmt.Errorf("parse env: %w", err)
	}

	config.normalize()
	return config, config.Validate()
}

// normalize replaces zero values left by a partial file with defaults.
func (c *EngineConfig) normalize() {
	d := DefaultConfig()
	if c.Simulation.SampleCount == 0 {
		c.Simulation.SampleCount = d.Simulation.SampleCount
	}
	if c.Simulation.MaxStateVisits == 0 {
		c.Simulation.MaxStateVisits = d.Simulation.MaxStateVisits
	}
	if c.Simulation.MaxRounds == 0 {
		c.Simulation.MaxRounds = d.Simulation.MaxRounds
	}
	if c.Simulation.AmbushCritMultiplier == 0 {
		c.Simulation.AmbushCritMultiplier = d.Simulation.AmbushCritMultiplier
	}
	if c.Exploration.SampleCount == 0 {
		c.Exploration.SampleCount = d.Exploration.SampleCount
	}
	if c.Exploration.MaxExactSamples == 0 {
		c.Exploration.MaxExactSamples = d.Exploration.MaxExactSamples
	}
	if c.Worker.QueueSize == 0 {
		c.Worker.QueueSize = d.Worker.QueueSize
	}
}

// Validate checks that every limit is usable.
func (c *EngineConfig) Validate() error {
	switch {
	case c.Simulation.SampleCount < 1:
		return fmt.Errorf("simulation.sample_count must be positive, got %d", c.Simulation.SampleCount)
	case c.Simulation.MaxStateVisits < 1:
		return fmt.Errorf("simulation.max_state_visits must be positive, got %d", c.Simulation.MaxStateVisits)
	case c.Simulation.MaxRounds < 1:
		return fmt.Errorf("simulation.max_rounds must be positive, got %d", c.Simulation.MaxRounds)
	case c.Simulation.AmbushCritMultiplier < 0:
		return fmt.Errorf("simulation.ambush_crit_multiplier must not be negative, got %g", c.Simulation.AmbushCritMultiplier)
	case c.Exploration.SampleCount < 1:
		return fmt.Errorf("exploration.sample_count must be positive, got %d", c.Exploration.SampleCount)
	case c.Worker.QueueSize < 1:
		return fmt.Errorf("worker.queue_size must be positive, got %d", c.Worker.QueueSize)
	}
	return nil
}
