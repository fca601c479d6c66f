package physics

import "github.com/san-kum/moonsim/internal/dynamo"

// Moons is the unit-gravity integrator: every pair of bodies pulls each
// other one unit per axis, then every body moves by its velocity.
type Moons struct {
	positions []dynamo.Vec3
}

func NewMoons() *Moons {
	return &Moons{}
}

func (m *Moons) Step(s dynamo.System) {
	m.applyGravity(s)
	ApplyVelocity(s)
}

func (m *Moons) applyGravity(s dynamo.System) {
	if cap(m.positions) < len(s) {
		m.positions = make([]dynamo.Vec3, len(s))
	}
	pos := m.positions[:len(s)]
	for i := range s {
		pos[i] = s[i].Pos
	}

	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			d := GravityDelta(pos[i], pos[j])
			s[i].Vel = s[i].Vel.Add(d)
			s[j].Vel = s[j].Vel.Sub(d)
		}
	}
}

// GravityDelta is the velocity change of a body at a caused by a body at b.
// The body at b receives the negation.
func GravityDelta(a, b dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{X: pull(a.X, b.X), Y: pull(a.Y, b.Y), Z: pull(a.Z, b.Z)}
}

func pull(a, b int64) int64 {
	switch {
	case a < b:
		return 1
	case a > b:
		return -1
	}
	return 0
}

// ApplyGravity runs the gravity phase on s. Positions are read from a
// snapshot so the result does not depend on pair order.
func ApplyGravity(s dynamo.System) {
	NewMoons().applyGravity(s)
}

// ApplyVelocity runs the motion phase on s.
func ApplyVelocity(s dynamo.System) {
	for i := range s {
		s[i].Pos = s[i].Pos.Add(s[i].Vel)
	}
}

// StepInPlace advances s by one step.
func StepInPlace(s dynamo.System) {
	NewMoons().Step(s)
}

// Step returns the next state of s, leaving s untouched.
func Step(s dynamo.System) dynamo.System {
	next := s.Clone()
	StepInPlace(next)
	return next
}

// Momentum is the vector sum of all velocities.
func Momentum(s dynamo.System) dynamo.Vec3 {
	var p dynamo.Vec3
	for _, b := range s {
		p = p.Add(b.Vel)
	}
	return p
}
