package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/physics"
)

// EnergyDrift tracks the largest relative departure of total energy from
// its first observed value.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []physics.Body, t float64) {
	energy := physics.Energy(bodies)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 && !math.IsInf(e.initial, 0) {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
