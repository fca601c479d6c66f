// Package analysis derives properties of a moon system without brute-force
// state hashing.
//
// The three axes never interact: the gravity phase on x reads only x
// positions and writes only x velocities. Each axis is therefore a closed
// system with its own period, and the full system repeats after the least
// common multiple of the three.
package analysis
