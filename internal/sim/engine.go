package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultDt is one simulated day.
	DefaultDt = 86400.0

	// DefaultScale maps one AU to 60 display units.
	DefaultScale = 60 / physics.AU
)

// Engine owns an ordered set of bodies and advances them with a fixed step.
// It is not safe for concurrent use.
type Engine struct {
	bodies   []physics.Body
	trails   []*physics.Trail
	index    map[string]int
	ref      int
	selected int
	scale    float64

	dt      float64
	integ   dynamo.Integrator
	workers int
	steps   int
	time    float64

	// per-step scratch, indexed like bodies
	pulls   []physics.Pull
	nextPos []r2.Vec
	nextVel []r2.Vec

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

type Option func(*Engine)

func WithDt(dt float64) Option { return func(e *Engine) { e.dt = dt } }

// WithScale sets the initial display scale in display units per metre.
func WithScale(scale float64) Option { return func(e *Engine) { e.scale = scale } }

// WithWorkers splits the force pass across n goroutines.
func WithWorkers(n int) Option { return func(e *Engine) { e.workers = n } }

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(e *Engine) { e.integ = integ }
}

// New builds an engine from body descriptors. Body order is kept for the
// lifetime of the engine.
func New(specs []physics.BodySpec, opts ...Option) (*Engine, error) {
	ref, err := physics.Validate(specs)
	if err != nil {
		return nil, err
	}

	n := len(specs)
	e := &Engine{
		bodies:   make([]physics.Body, n),
		trails:   make([]*physics.Trail, n),
		index:    make(map[string]int, n),
		ref:      ref,
		selected: -1,
		scale:    DefaultScale,
		dt:       DefaultDt,
		integ:    integrators.NewSymplecticEuler(),
		workers:  1,
		pulls:    make([]physics.Pull, n),
		nextPos:  make([]r2.Vec, n),
		nextVel:  make([]r2.Vec, n),
	}
	for i, s := range specs {
		e.bodies[i] = physics.NewBody(s)
		e.trails[i] = physics.NewTrail(physics.TrailCapacity)
		e.index[s.Name] = i
	}

	for _, opt := range opts {
		opt(e)
	}

	if !(e.dt > 0) || math.IsInf(e.dt, 0) {
		return nil, &physics.ConfigError{Reason: fmt.Sprintf("dt must be positive and finite, got %g", e.dt)}
	}
	if !(e.scale > 0) || math.IsInf(e.scale, 0) {
		return nil, &physics.ConfigError{Reason: fmt.Sprintf("scale must be positive and finite, got %g", e.scale)}
	}
	if e.integ == nil {
		return nil, &physics.ConfigError{Reason: "nil integrator"}
	}
	return e, nil
}

// Step advances every body by one dt. Forces are computed from the positions
// at the start of the step; nothing is written until all of them succeed,
// so a failed step leaves the engine untouched.
func (e *Engine) Step() error {
	err := dynamo.ParallelFor(len(e.bodies), e.workers, func(start, end int) error {
		for i := start; i < end; i++ {
			p, err := physics.NetForce(e.bodies, i)
			if err != nil {
				return err
			}
			e.pulls[i] = p
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := range e.bodies {
		b := &e.bodies[i]
		f := e.pulls[i].Force
		acc := r2.Vec{X: f.X / b.Mass, Y: f.Y / b.Mass}

		pos, vel := e.integ.Advance(b.Pos, b.Vel, acc, e.dt)
		if !physics.Finite(pos) || !physics.Finite(vel) {
			return fmt.Errorf("%w: body %q", dynamo.ErrInvalidState, b.Name)
		}
		e.nextPos[i], e.nextVel[i] = pos, vel
	}

	for i := range e.bodies {
		b := &e.bodies[i]
		b.Pos, b.Vel = e.nextPos[i], e.nextVel[i]
		if e.pulls[i].SawReference {
			b.DistanceToReference = e.pulls[i].ReferenceDistance
		}
		e.trails[i].Push(b.Pos)
	}

	e.steps++
	e.time += e.dt
	return nil
}

// Bodies returns a copy of the current body states in construction order.
func (e *Engine) Bodies() []physics.Body {
	out := make([]physics.Body, len(e.bodies))
	copy(out, e.bodies)
	return out
}

func (e *Engine) Len() int { return len(e.bodies) }

func (e *Engine) Body(name string) (physics.Body, error) {
	i, ok := e.index[name]
	if !ok {
		return physics.Body{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownBody, name)
	}
	return e.bodies[i], nil
}

// Reference returns the reference body, if one was flagged.
func (e *Engine) Reference() (physics.Body, bool) {
	if e.ref < 0 {
		return physics.Body{}, false
	}
	return e.bodies[e.ref], true
}

// Trail returns the recent positions of the named body, oldest first.
func (e *Engine) Trail(name string) ([]r2.Vec, error) {
	i, ok := e.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownBody, name)
	}
	return e.trails[i].Points(), nil
}

// TrailAt is Trail by construction index.
func (e *Engine) TrailAt(i int) []r2.Vec {
	if i < 0 || i >= len(e.trails) {
		return nil
	}
	return e.trails[i].Points()
}

func (e *Engine) Dt() float64        { return e.dt }
func (e *Engine) Time() float64      { return e.time }
func (e *Engine) Steps() int         { return e.steps }
func (e *Engine) Integrator() string { return e.integ.Name() }

func (e *Engine) AddMetric(m dynamo.Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }
