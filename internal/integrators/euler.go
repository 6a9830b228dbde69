package integrators

import "gonum.org/v1/gonum/spatial/r2"

// SymplecticEuler updates velocity first and moves with the new velocity.
// Orbits stay closed with bounded energy oscillation.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (*SymplecticEuler) Name() string { return "symplectic" }

func (*SymplecticEuler) Advance(pos, vel, acc r2.Vec, dt float64) (r2.Vec, r2.Vec) {
	vel = r2.Vec{X: vel.X + acc.X*dt, Y: vel.Y + acc.Y*dt}
	pos = r2.Vec{X: pos.X + vel.X*dt, Y: pos.Y + vel.Y*dt}
	return pos, vel
}

// Euler is the explicit scheme: it moves with the old velocity. Energy
// grows every step on a circular orbit, which makes it a useful contrast.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (*Euler) Name() string { return "euler" }

func (*Euler) Advance(pos, vel, acc r2.Vec, dt float64) (r2.Vec, r2.Vec) {
	pos = r2.Vec{X: pos.X + vel.X*dt, Y: pos.Y + vel.Y*dt}
	vel = r2.Vec{X: vel.X + acc.X*dt, Y: vel.Y + acc.Y*dt}
	return pos, vel
}
