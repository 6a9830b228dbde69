package metrics

import (
	"math"

	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Revolutions counts the turns a body sweeps around the reference body (or
// the origin when there is none). Counter-clockwise turns are positive.
type Revolutions struct {
	name    string
	body    string
	last    float64
	swept   float64
	samples int
}

func NewRevolutions(body string) *Revolutions {
	return &Revolutions{name: "revolutions", body: body}
}

func (r *Revolutions) Name() string { return r.name }

func (r *Revolutions) Observe(bodies []physics.Body, t float64) {
	target := -1
	var centre r2.Vec
	for i, b := range bodies {
		if b.Name == r.body {
			target = i
		}
		if b.Reference {
			centre = b.Pos
		}
	}
	if target < 0 {
		return
	}

	angle := physics.Angle(bodies[target].Pos, centre)
	if r.samples > 0 {
		r.swept += wrapAngle(angle - r.last)
	}
	r.last = angle
	r.samples++
}

func (r *Revolutions) Value() float64 { return r.swept / (2 * math.Pi) }

func (r *Revolutions) Reset() {
	r.last = 0
	r.swept = 0
	r.samples = 0
}

// wrapAngle maps a to (-π, π].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
