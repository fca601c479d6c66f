// Package physics implements the moon system: parsing the input text and
// advancing the system one step at a time.
//
// A step has two phases. The gravity phase compares every pair of moons on
// each axis and moves their velocities one unit toward each other, reading
// positions from a snapshot taken before any velocity changes. The motion
// phase then adds each moon's velocity to its position.
//
//	moons, err := physics.ParseFile("input.txt", physics.ParseOptions{SkipBlank: true})
//	m := physics.NewMoons()
//	m.Step(moons)
package physics
