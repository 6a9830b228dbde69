package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// MomentumDrift tracks the largest change in total momentum, relative to the
// initial sum of |m·v|. Pairwise forces cancel, so it should stay at
// rounding level.
type MomentumDrift struct {
	name     string
	initial  r2.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []physics.Body, t float64) {
	p := physics.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
		m.scale = physics.MomentumScale(bodies)
	}
	m.samples++

	if m.scale > 0 {
		drift := r2.Norm(r2.Sub(p, m.initial)) / m.scale
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
