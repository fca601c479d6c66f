package sim_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/metrics"
	"github.com/san-kum/moonsim/internal/physics"
	"github.com/san-kum/moonsim/internal/sim"
)

const sampleInput = `<x=-1, y=0, z=2>
<x=2, y=-10, z=-7>
<x=4, y=-8, z=8>
<x=3, y=5, z=-1>
`

const longInput = `<x=-8, y=-10, z=0>
<x=5, y=5, z=10>
<x=2, y=-7, z=3>
<x=9, y=-8, z=-3>
`

func parse(input string) dynamo.System {
	moons, err := physics.ParseMoons(input, physics.ParseOptions{SkipBlank: true})
	Expect(err).NotTo(HaveOccurred())
	return moons
}

type stepCounter struct {
	steps []int
}

func (c *stepCounter) OnStep(s dynamo.System, step int) { c.steps = append(c.steps, step) }

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		s   *sim.Simulator
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = sim.New(physics.NewMoons())
	})

	Describe("RunSteps", func() {
		It("reports the total energy after a fixed number of steps", func() {
			energy := metrics.NewEnergy()
			s.AddMetric(energy)

			cfg := sim.DefaultConfig()
			cfg.Steps = 10
			cfg.Record = true

			result, err := s.RunSteps(ctx, parse(sampleInput), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Steps).To(Equal(10))
			Expect(result.States).To(HaveLen(11))
			Expect(result.Energies).To(HaveLen(11))
			Expect(result.Energies[0]).To(BeZero())
			Expect(result.Energies[10]).To(Equal(int64(179)))
			Expect(result.Metrics).To(HaveKeyWithValue("energy", 179.0))
			Expect(metrics.TotalEnergy(result.Final)).To(Equal(int64(179)))
		})

		It("notifies observers for step 0 and every step after", func() {
			counter := &stepCounter{}
			s.AddObserver(counter)

			cfg := sim.DefaultConfig()
			cfg.Steps = 3

			_, err := s.RunSteps(ctx, parse(sampleInput), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(counter.steps).To(Equal([]int{0, 1, 2, 3}))
		})

		It("does not mutate the initial state", func() {
			x0 := parse(sampleInput)
			before := x0.Clone()

			cfg := sim.DefaultConfig()
			cfg.Steps = 5
			_, err := s.RunSteps(ctx, x0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(x0.Equal(before)).To(BeTrue())
		})

		It("keeps momentum constant", func() {
			drift := metrics.NewMomentumDrift()
			s.AddMetric(drift)

			cfg := sim.DefaultConfig()
			cfg.Steps = 200
			result, err := s.RunSteps(ctx, parse(sampleInput), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics["momentum_drift"]).To(BeZero())
		})

		It("rejects negative step counts and empty systems", func() {
			cfg := sim.DefaultConfig()
			cfg.Steps = -1
			_, err := s.RunSteps(ctx, parse(sampleInput), cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

			_, err = s.RunSteps(ctx, dynamo.System{}, sim.DefaultConfig())
			Expect(err).To(MatchError(dynamo.ErrEmptyInput))
		})

		It("stops when the context is canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := s.RunSteps(canceled, parse(sampleInput), sim.DefaultConfig())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})

	Describe("FindCycle", func() {
		It("finds the mirrored pair returning to its start", func() {
			x0 := dynamo.System{
				{ID: 1, Pos: dynamo.Vec3{X: -1}},
				{ID: 2, Pos: dynamo.Vec3{X: 1}},
			}

			result, err := s.FindCycle(ctx, x0, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(dynamo.OutcomeFound))
			Expect(result.Step).To(Equal(uint64(6)))
			Expect(result.FirstSeen).To(BeZero())
			Expect(result.Period()).To(Equal(uint64(6)))
			Expect(result.State.Equal(x0)).To(BeTrue())
		})

		It("finds the repeat of the sample system", func() {
			result, err := s.FindCycle(ctx, parse(sampleInput), sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(dynamo.OutcomeFound))
			Expect(result.Step).To(Equal(uint64(2772)))
		})

		It("is deterministic across runs", func() {
			x0 := parse(sampleInput)
			first, err := s.FindCycle(ctx, x0, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			second, err := sim.New(physics.NewMoons()).FindCycle(ctx, x0, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Step).To(Equal(first.Step))
			Expect(second.State.Fingerprint()).To(Equal(first.State.Fingerprint()))
		})

		It("reports exhaustion separately from a found cycle", func() {
			cfg := sim.DefaultConfig()
			cfg.MaxSteps = 100

			result, err := s.FindCycle(ctx, parse(sampleInput), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(dynamo.OutcomeExhausted))
			Expect(result.Step).To(Equal(uint64(100)))
			Expect(result.Period()).To(BeZero())
		})

		It("treats a lone body at rest as repeating on the first step", func() {
			result, err := s.FindCycle(ctx, dynamo.System{{ID: 1, Pos: dynamo.Vec3{X: 3}}}, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(dynamo.OutcomeFound))
			Expect(result.Step).To(Equal(uint64(1)))
		})

		It("never lets the progress ticker gate the search", func() {
			var calls atomic.Int64
			s.OnProgress(func(step uint64, seen int) {
				calls.Add(1)
			})

			cfg := sim.DefaultConfig()
			cfg.ProgressInterval = time.Hour

			result, err := s.FindCycle(ctx, parse(sampleInput), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Step).To(Equal(uint64(2772)))
			Expect(calls.Load()).To(BeZero())
		})

		It("reports progress during a long search without changing the outcome", func() {
			var (
				calls atomic.Int64
				last  atomic.Uint64
			)
			s.OnProgress(func(step uint64, seen int) {
				Expect(step).To(BeNumerically(">=", last.Load()))
				Expect(uint64(seen)).To(Equal(step))
				last.Store(step)
				calls.Add(1)
			})

			cfg := sim.DefaultConfig()
			cfg.ProgressInterval = time.Millisecond
			cfg.MaxSteps = 1_000_000

			result, err := s.FindCycle(ctx, parse(longInput), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(dynamo.OutcomeExhausted))
			Expect(result.Step).To(Equal(cfg.MaxSteps))
			Expect(calls.Load()).To(BeNumerically(">", 0))
			Expect(last.Load()).To(BeNumerically("<=", cfg.MaxSteps))
		})

		It("rejects a zero ceiling", func() {
			cfg := sim.DefaultConfig()
			cfg.MaxSteps = 0
			_, err := s.FindCycle(ctx, parse(sampleInput), cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("stops when the context is canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			result, err := s.FindCycle(canceled, parse(sampleInput), sim.DefaultConfig())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(result.Outcome).To(Equal(dynamo.OutcomeRunning))
		})
	})
})
