package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/moonsim/internal/config"
	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/metrics"
	"github.com/san-kum/moonsim/internal/physics"
	"github.com/san-kum/moonsim/internal/sim"
)

type Config struct {
	// Input is a file path. Preset, when set, takes precedence.
	Input     string
	Preset    string
	SkipBlank bool
	Sim       sim.Config
}

// FromConfig builds an experiment configuration from a run configuration.
func FromConfig(c *config.Config, preset string) Config {
	return Config{
		Input:     c.Input,
		Preset:    preset,
		SkipBlank: c.SkipBlank,
		Sim: sim.Config{
			Steps:            c.Steps,
			MaxSteps:         c.MaxSteps,
			ProgressInterval: c.ProgressInterval,
		},
	}
}

type Experiment struct {
	cfg       Config
	initial   dynamo.System
	simulator *sim.Simulator
	energy    *metrics.Energy
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Source names where the initial state came from.
func (e *Experiment) Source() string {
	if e.cfg.Preset != "" {
		return "preset:" + e.cfg.Preset
	}
	return e.cfg.Input
}

// Setup parses the initial state and wires the simulator.
func (e *Experiment) Setup() error {
	initial, err := LoadSystem(e.cfg.Input, e.cfg.Preset, e.cfg.SkipBlank)
	if err != nil {
		return err
	}
	e.initial = initial

	e.energy = metrics.NewEnergy()
	e.simulator = sim.New(physics.NewMoons())
	e.simulator.AddMetric(e.energy)
	e.simulator.AddMetric(metrics.NewMomentumDrift())
	return nil
}

// LoadSystem reads the initial moons from a preset or an input file.
func LoadSystem(input, preset string, skipBlank bool) (dynamo.System, error) {
	opts := physics.ParseOptions{SkipBlank: skipBlank}
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return physics.ParseMoons(p.Input, opts)
	}
	return physics.ParseFile(input, opts)
}

func (e *Experiment) Initial() dynamo.System {
	return e.initial.Clone()
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) RunSteps(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.RunSteps(ctx, e.initial, e.cfg.Sim)
}

func (e *Experiment) FindCycle(ctx context.Context) (*sim.CycleResult, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.FindCycle(ctx, e.initial, e.cfg.Sim)
}
