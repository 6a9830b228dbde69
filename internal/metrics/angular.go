package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/physics"
)

// AngularMomentumDrift tracks the largest relative change in total angular
// momentum about the origin. Gravity is central, so symplectic Euler keeps
// it at rounding level.
type AngularMomentumDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(bodies []physics.Body, t float64) {
	L := physics.AngularMomentum(bodies)
	if a.samples == 0 {
		a.initial = L
	}
	a.samples++

	if a.initial != 0 {
		drift := math.Abs(L-a.initial) / math.Abs(a.initial)
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}
