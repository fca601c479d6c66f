package sim

import (
	"math"
	"time"

	"github.com/san-kum/moonsim/internal/dynamo"
)

type Config struct {
	// Steps is the number of steps for a fixed-length run.
	Steps int
	// MaxSteps bounds a cycle search.
	MaxSteps uint64
	// ProgressInterval is the wall-clock period between progress reports
	// during a cycle search. Zero disables reporting.
	ProgressInterval time.Duration
	// Record keeps a copy of every state in Result.States.
	Record bool
}

func DefaultConfig() Config {
	return Config{
		Steps:            1000,
		MaxSteps:         math.MaxUint32,
		ProgressInterval: time.Second,
	}
}

type Result struct {
	States   []dynamo.System
	Energies []int64
	Final    dynamo.System
	Steps    int
	Metrics  map[string]float64
}

type CycleResult struct {
	Outcome dynamo.Outcome
	// Step is the step at which the search stopped: the first repeated
	// state for OutcomeFound, the ceiling for OutcomeExhausted.
	Step uint64
	// FirstSeen is the earlier step that produced the same fingerprint.
	FirstSeen uint64
	State     dynamo.System
	Elapsed   time.Duration
}

// Period is the length of the detected cycle, or zero if none was found.
func (r *CycleResult) Period() uint64 {
	if r.Outcome != dynamo.OutcomeFound {
		return 0
	}
	return r.Step - r.FirstSeen
}

// ProgressFunc receives the current step and the number of distinct states
// seen so far.
type ProgressFunc func(step uint64, seen int)
