package storage

import (
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sample is one body's state at one recorded step.
type Sample struct {
	Step     int
	Time     float64
	Body     string
	Pos      r2.Vec
	Vel      r2.Vec
	Distance float64
}

// Recorder is an observer that keeps every n-th notification. The first
// notification (the initial state) is always kept.
type Recorder struct {
	every   int
	calls   int
	bodies  []string
	colours map[string]string
	samples []Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(bodies []physics.Body, t float64) {
	step := r.calls
	r.calls++
	if step%r.every != 0 {
		return
	}
	if r.bodies == nil {
		r.bodies = make([]string, len(bodies))
		r.colours = make(map[string]string, len(bodies))
		for i, b := range bodies {
			r.bodies[i] = b.Name
			if b.Color != "" {
				r.colours[b.Name] = b.Color
			}
		}
	}
	for _, b := range bodies {
		r.samples = append(r.samples, Sample{
			Step:     step,
			Time:     t,
			Body:     b.Name,
			Pos:      b.Pos,
			Vel:      b.Vel,
			Distance: b.DistanceToReference,
		})
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Bodies lists the body names in the order they were first seen.
func (r *Recorder) Bodies() []string { return r.bodies }

func (r *Recorder) Colours() map[string]string { return r.colours }
