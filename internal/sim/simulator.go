package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/metrics"
)

type Simulator struct {
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	progress   ProgressFunc
}

func New(integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) OnProgress(fn ProgressFunc)    { s.progress = fn }

// RunSteps advances x0 cfg.Steps times. Metrics and observers see step 0
// and every state after it.
func (s *Simulator) RunSteps(ctx context.Context, x0 dynamo.System, cfg Config) (*Result, error) {
	if err := s.validate(x0); err != nil {
		return nil, err
	}
	if cfg.Steps < 0 {
		return nil, fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidConfig, cfg.Steps)
	}

	result := &Result{
		Energies: make([]int64, 0, cfg.Steps+1),
		Metrics:  make(map[string]float64),
	}
	if cfg.Record {
		result.States = make([]dynamo.System, 0, cfg.Steps+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	s.observe(result, x, 0, cfg)

	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Final = x
			return result, ctx.Err()
		default:
		}

		s.integrator.Step(x)
		result.Steps++
		s.observe(result, x, i, cfg)
	}

	result.Final = x
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(result *Result, x dynamo.System, step int, cfg Config) {
	for _, m := range s.metrics {
		m.Observe(x, step)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, step)
	}
	result.Energies = append(result.Energies, metrics.TotalEnergy(x))
	if cfg.Record {
		result.States = append(result.States, x.Clone())
	}
}

// FindCycle steps x0 until the fingerprint of the current state matches an
// earlier one or cfg.MaxSteps is reached. Step 0 is the initial state.
//
// Progress is polled without blocking, so a missing tick never delays the
// search.
func (s *Simulator) FindCycle(ctx context.Context, x0 dynamo.System, cfg Config) (*CycleResult, error) {
	if err := s.validate(x0); err != nil {
		return nil, err
	}
	if cfg.MaxSteps == 0 {
		return nil, fmt.Errorf("%w: max steps must be positive", dynamo.ErrInvalidConfig)
	}

	var tick <-chan time.Time
	if cfg.ProgressInterval > 0 && s.progress != nil {
		ticker := time.NewTicker(cfg.ProgressInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	seen := make(map[dynamo.Fingerprint]uint64)
	x := x0.Clone()
	result := &CycleResult{Outcome: dynamo.OutcomeRunning}
	var step uint64

	for {
		select {
		case <-ctx.Done():
			result.Step = step
			result.State = x
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		case <-tick:
			s.progress(step, len(seen))
		default:
		}

		fp := x.Fingerprint()
		if first, ok := seen[fp]; ok {
			result.Outcome = dynamo.OutcomeFound
			result.FirstSeen = first
			break
		}
		seen[fp] = step

		step++
		if step >= cfg.MaxSteps {
			result.Outcome = dynamo.OutcomeExhausted
			break
		}
		s.integrator.Step(x)
	}

	result.Step = step
	result.State = x
	result.Elapsed = time.Since(start)
	return result, nil
}

func (s *Simulator) validate(x0 dynamo.System) error {
	if s.integrator == nil {
		return fmt.Errorf("%w: no integrator", dynamo.ErrInvalidConfig)
	}
	if len(x0) == 0 {
		return dynamo.ErrEmptyInput
	}
	return nil
}
