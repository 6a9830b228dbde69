package dynamo

import (
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances one body given its acceleration over dt.
type Integrator interface {
	Name() string
	Advance(pos, vel, acc r2.Vec, dt float64) (r2.Vec, r2.Vec)
}

// Observer is notified with the body states after every committed step,
// and once with the initial state when a run starts.
type Observer interface {
	OnStep(bodies []physics.Body, t float64)
}

type Metric interface {
	Name() string
	Observe(bodies []physics.Body, t float64)
	Value() float64
	Reset()
}

type Result struct {
	StepsTaken  int
	Time        float64
	Metrics     map[string]float64
	EnergyDrift float64
}
