package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Energy returns kinetic plus pairwise potential energy in joules.
// Coincident bodies yield -Inf.
func Energy(bodies []Body) float64 {
	ke, pe := 0.0, 0.0
	for i := range bodies {
		v := bodies[i].Vel
		ke += 0.5 * bodies[i].Mass * r2.Dot(v, v)

		for j := i + 1; j < len(bodies); j++ {
			r := r2.Norm(r2.Sub(bodies[j].Pos, bodies[i].Pos))
			pe -= G * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum.
func Momentum(bodies []Body) r2.Vec {
	var p r2.Vec
	for _, b := range bodies {
		p = r2.Add(p, r2.Scale(b.Mass, b.Vel))
	}
	return p
}

// MomentumScale is the sum of |m·v|, used to normalise momentum errors.
func MomentumScale(bodies []Body) float64 {
	s := 0.0
	for _, b := range bodies {
		s += b.Mass * r2.Norm(b.Vel)
	}
	return s
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(bodies []Body) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass * r2.Cross(b.Pos, b.Vel)
	}
	return L
}

// Angle returns the polar angle of p around c.
func Angle(p, c r2.Vec) float64 {
	d := r2.Sub(p, c)
	return math.Atan2(d.Y, d.X)
}
