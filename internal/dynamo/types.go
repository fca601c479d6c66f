package dynamo

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

type Vec3 struct {
	X, Y, Z int64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Neg() Vec3       { return Vec3{-v.X, -v.Y, -v.Z} }

// Axis returns the component for axis 0 (x), 1 (y) or 2 (z).
func (v Vec3) Axis(i int) int64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("dynamo: axis %d out of range", i))
}

// AbsSum is the sum of the absolute values of the components.
func (v Vec3) AbsSum() int64 {
	return abs(v.X) + abs(v.Y) + abs(v.Z)
}

func (v Vec3) String() string {
	return fmt.Sprintf("x=%d, y=%d, z=%d", v.X, v.Y, v.Z)
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

type Body struct {
	ID  int
	Pos Vec3
	Vel Vec3
}

func (b Body) String() string {
	return fmt.Sprintf("pos=<%s>, vel=<%s>", b.Pos, b.Vel)
}

// System is the ordered state of every body at one step.
type System []Body

func (s System) Clone() System {
	c := make(System, len(s))
	copy(c, s)
	return c
}

// Equal compares positions and velocities in order, ignoring identifiers.
func (s System) Equal(other System) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].Pos != other[i].Pos || s[i].Vel != other[i].Vel {
			return false
		}
	}
	return true
}

// AppendKey appends the canonical encoding of the state to dst: for every
// body in order, pos.x pos.y pos.z vel.x vel.y vel.z as little-endian int64.
func (s System) AppendKey(dst []byte) []byte {
	for _, b := range s {
		for _, v := range [6]int64{b.Pos.X, b.Pos.Y, b.Pos.Z, b.Vel.X, b.Vel.Y, b.Vel.Z} {
			dst = binary.LittleEndian.AppendUint64(dst, uint64(v))
		}
	}
	return dst
}

func (s System) Key() []byte {
	return s.AppendKey(make([]byte, 0, len(s)*48))
}

type Fingerprint uint64

// Fingerprint is FNV-1a over Key. It is stable across processes and runs.
func (s System) Fingerprint() Fingerprint {
	h := fnv.New64a()
	h.Write(s.Key())
	return Fingerprint(h.Sum64())
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Outcome is the terminal state of a cycle search.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeFound
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeFound:
		return "found"
	case OutcomeExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Integrator advances a system by one discrete time unit in place.
type Integrator interface {
	Step(s System)
}

type Metric interface {
	Name() string
	Observe(s System, step int)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s System, step int)
}
