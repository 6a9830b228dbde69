// Package physics holds the gravitational model: bodies, the pairwise force
// accumulator, orbit trails and conserved-quantity diagnostics.
//
//   - [Body]: point mass with position, velocity and display hints
//   - [NetForce]: Newtonian force on one body from all others
//   - [Trail]: fixed-capacity history of recent positions
//   - [Energy], [Momentum]: diagnostics for drift checks
//
// All quantities are SI: metres, kilograms, seconds, newtons.
//
// # Errors
//
// Malformed body sets are rejected with a [ConfigError]; coincident bodies
// surface as a [SingularityError] instead of producing NaN forces:
//
//	if errors.Is(err, physics.ErrSingularity) {
//	    // two bodies share a position
//	}
package physics
