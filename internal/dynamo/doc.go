// Package dynamo provides the core value types of the moon simulation.
//
// The package defines the data the rest of the program passes around:
//
//   - [Vec3]: integer vector in three dimensions
//   - [Body]: a moon with identifier, position and velocity
//   - [System]: the ordered set of bodies that forms one simulation state
//   - [Fingerprint]: deterministic digest of a System used for repeat detection
//
// # Equality
//
// Two systems are equal when every body matches on position and velocity, in
// order. Identifiers are display-only and never take part in equality or
// fingerprinting.
//
// # Example
//
//	sys, _ := physics.ParseMoons(input, physics.ParseOptions{SkipBlank: true})
//	physics.StepInPlace(sys)
//	fp := sys.Fingerprint()
package dynamo
