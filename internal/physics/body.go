package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AU is one astronomical unit in metres.
const AU = 149.6e6 * 1000

// BodySpec is the construction descriptor for a body.
type BodySpec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Mass        float64 `yaml:"mass"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	VX          float64 `yaml:"vx"`
	VY          float64 `yaml:"vy"`
	Radius      float64 `yaml:"radius"`
	Reference   bool    `yaml:"reference,omitempty"`
	Color       string  `yaml:"color,omitempty"`
}

// Body is a point mass. Radius and Color are display hints only.
type Body struct {
	Name        string
	Description string
	Mass        float64
	Pos         r2.Vec
	Vel         r2.Vec
	Radius      float64
	Reference   bool
	Color       string

	// DistanceToReference is refreshed by each step from the pre-step
	// positions. It stays zero for the reference body itself.
	DistanceToReference float64
}

func NewBody(s BodySpec) Body {
	return Body{
		Name:        s.Name,
		Description: s.Description,
		Mass:        s.Mass,
		Pos:         r2.Vec{X: s.X, Y: s.Y},
		Vel:         r2.Vec{X: s.VX, Y: s.VY},
		Radius:      s.Radius,
		Reference:   s.Reference,
		Color:       s.Color,
	}
}

func (b Body) Speed() float64 { return r2.Norm(b.Vel) }

// Validate checks a body set and returns the index of the reference body,
// or -1 when none is flagged.
func Validate(specs []BodySpec) (int, error) {
	if len(specs) == 0 {
		return -1, &ConfigError{Reason: "no bodies"}
	}

	ref := -1
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return -1, &ConfigError{Reason: fmt.Sprintf("body %d has no name", i)}
		}
		if seen[s.Name] {
			return -1, &ConfigError{Body: s.Name, Reason: "duplicate name"}
		}
		seen[s.Name] = true

		if !(s.Mass > 0) || math.IsInf(s.Mass, 0) {
			return -1, &ConfigError{Body: s.Name, Reason: fmt.Sprintf("mass must be positive and finite, got %g", s.Mass)}
		}
		if !finite(s.X, s.Y, s.VX, s.VY) {
			return -1, &ConfigError{Body: s.Name, Reason: "position and velocity must be finite"}
		}
		if s.Reference {
			if ref >= 0 {
				return -1, &ConfigError{Body: s.Name, Reason: fmt.Sprintf("%q is already the reference body", specs[ref].Name)}
			}
			ref = i
		}
	}
	return ref, nil
}

// Finite reports whether every component of v is a finite number.
func Finite(v r2.Vec) bool { return finite(v.X, v.Y) }

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
