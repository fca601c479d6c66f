package analysis

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/moonsim/internal/dynamo"
)

var (
	ErrNoPeriod = errors.New("analysis: axis did not return to its initial state")
	ErrOverflow = errors.New("analysis: cycle length overflows uint64")
)

// axisState is one axis of every body: positions then velocities.
type axisState struct {
	pos []int64
	vel []int64
}

func extractAxis(s dynamo.System, axis int) axisState {
	a := axisState{pos: make([]int64, len(s)), vel: make([]int64, len(s))}
	for i, b := range s {
		a.pos[i] = b.Pos.Axis(axis)
		a.vel[i] = b.Vel.Axis(axis)
	}
	return a
}

func (a axisState) step() {
	n := len(a.pos)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case a.pos[i] < a.pos[j]:
				a.vel[i]++
				a.vel[j]--
			case a.pos[i] > a.pos[j]:
				a.vel[i]--
				a.vel[j]++
			}
		}
	}
	for i := range a.pos {
		a.pos[i] += a.vel[i]
	}
}

func (a axisState) equal(o axisState) bool {
	for i := range a.pos {
		if a.pos[i] != o.pos[i] || a.vel[i] != o.vel[i] {
			return false
		}
	}
	return true
}

// AxisPeriod steps one axis of s until it returns to its initial state.
// The step rule is reversible, so the first repeat is always the start.
func AxisPeriod(ctx context.Context, s dynamo.System, axis int, maxSteps uint64) (uint64, error) {
	initial := extractAxis(s, axis)
	cur := extractAxis(s, axis)

	for step := uint64(1); step <= maxSteps; step++ {
		if step&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		cur.step()
		if cur.equal(initial) {
			return step, nil
		}
	}
	return 0, fmt.Errorf("%w: axis %c after %d steps", ErrNoPeriod, "xyz"[axis], maxSteps)
}

// AxisPeriods computes the x, y and z periods concurrently.
func AxisPeriods(ctx context.Context, s dynamo.System, maxSteps uint64) ([3]uint64, error) {
	var periods [3]uint64
	if len(s) == 0 {
		return periods, dynamo.ErrEmptyInput
	}

	g, ctx := errgroup.WithContext(ctx)
	for axis := 0; axis < 3; axis++ {
		axis := axis
		g.Go(func() error {
			p, err := AxisPeriod(ctx, s, axis, maxSteps)
			if err != nil {
				return err
			}
			periods[axis] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return periods, err
	}
	return periods, nil
}

// CycleLength returns the step at which the whole system first repeats.
func CycleLength(periods [3]uint64) (uint64, error) {
	l := uint64(1)
	for _, p := range periods {
		var err error
		if l, err = lcm(l, p); err != nil {
			return 0, err
		}
	}
	return l, nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	hi, lo := bits.Mul64(a/gcd(a, b), b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}
