package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// G is the gravitational constant in SI units.
const G = 6.67428e-11

// Pull is the net force on one body plus the distance to the reference body
// observed while summing it.
type Pull struct {
	Force             r2.Vec
	ReferenceDistance float64
	SawReference      bool
}

// Attraction returns the force b exerts on a and the distance between them.
func Attraction(a, b Body) (r2.Vec, float64, error) {
	d := r2.Sub(b.Pos, a.Pos)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}, 0, &SingularityError{A: a.Name, B: b.Name}
	}

	mag := G * a.Mass * b.Mass / (dist * dist)
	theta := math.Atan2(d.Y, d.X)
	return r2.Vec{X: math.Cos(theta) * mag, Y: math.Sin(theta) * mag}, dist, nil
}

// NetForce sums the attraction of every other body on bodies[i], in slice
// order. Only the pairing with the reference body sets ReferenceDistance.
func NetForce(bodies []Body, i int) (Pull, error) {
	var p Pull
	for j := range bodies {
		if j == i {
			continue
		}
		f, dist, err := Attraction(bodies[i], bodies[j])
		if err != nil {
			return Pull{}, err
		}
		if bodies[j].Reference {
			p.ReferenceDistance = dist
			p.SawReference = true
		}
		p.Force = r2.Add(p.Force, f)
	}
	return p, nil
}

// CircularSpeed is the speed of a circular orbit at radius r around a
// central mass.
func CircularSpeed(centralMass, r float64) float64 {
	return math.Sqrt(G * centralMass / r)
}
