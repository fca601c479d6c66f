package metrics

import (
	"github.com/san-kum/moonsim/internal/dynamo"
)

// BodyEnergy returns the potential (sum of absolute position components)
// and kinetic (sum of absolute velocity components) energy of b.
func BodyEnergy(b dynamo.Body) (pot, kin int64) {
	return b.Pos.AbsSum(), b.Vel.AbsSum()
}

// TotalEnergy sums potential*kinetic over all bodies.
func TotalEnergy(s dynamo.System) int64 {
	var total int64
	for _, b := range s {
		pot, kin := BodyEnergy(b)
		total += pot * kin
	}
	return total
}

// Energy records the total energy of the most recently observed state and
// the peak seen during the run.
type Energy struct {
	name    string
	samples int
	current int64
	peak    int64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.System, step int) {
	e.current = TotalEnergy(s)
	if e.samples == 0 || e.current > e.peak {
		e.peak = e.current
	}
	e.samples++
}

func (e *Energy) Value() float64 {
	return float64(e.current)
}

func (e *Energy) Peak() int64 { return e.peak }

func (e *Energy) Reset() {
	e.current = 0
	e.peak = 0
	e.samples = 0
}

// MomentumDrift reports the largest per-axis deviation of total momentum
// from the first observed state. Unit gravity conserves momentum, so any
// non-zero value means the integrator is broken.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec3
	maxDrift int64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s dynamo.System, step int) {
	var p dynamo.Vec3
	for _, b := range s {
		p = p.Add(b.Vel)
	}

	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	d := p.Sub(m.initial)
	for axis := 0; axis < 3; axis++ {
		v := d.Axis(axis)
		if v < 0 {
			v = -v
		}
		if v > m.maxDrift {
			m.maxDrift = v
		}
	}
}

func (m *MomentumDrift) Value() float64 {
	return float64(m.maxDrift)
}

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
