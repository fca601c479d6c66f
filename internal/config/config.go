package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/moonsim/internal/dynamo"
)

const (
	DefaultSteps            = 1000
	DefaultMaxSteps         = math.MaxUint32
	DefaultProgressInterval = time.Second
	DefaultInput            = "input.txt"
	DefaultDataDir          = ".moonsim"
)

const (
	ModeEnergy = "energy"
	ModeCycle  = "cycle"
)

type Config struct {
	Input            string        `yaml:"input"`
	Mode             string        `yaml:"mode"`
	Steps            int           `yaml:"steps"`
	MaxSteps         uint64        `yaml:"max_steps"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	SkipBlank        bool          `yaml:"skip_blank"`
	DataDir          string        `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Input:            DefaultInput,
		Mode:             ModeEnergy,
		Steps:            DefaultSteps,
		MaxSteps:         DefaultMaxSteps,
		ProgressInterval: DefaultProgressInterval,
		SkipBlank:        true,
		DataDir:          DefaultDataDir,
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeEnergy, ModeCycle:
	default:
		return fmt.Errorf("%w: unknown mode %q", dynamo.ErrInvalidConfig, c.Mode)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidConfig, c.Steps)
	}
	if c.MaxSteps == 0 {
		return fmt.Errorf("%w: max_steps must be positive", dynamo.ErrInvalidConfig)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("%w: progress_interval must be non-negative", dynamo.ErrInvalidConfig)
	}
	return nil
}
