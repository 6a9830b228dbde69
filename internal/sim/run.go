package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
)

// Run advances the engine by steps, notifying metrics and observers with the
// initial state and after every committed step. A failing step stops the run
// and is returned wrapped in a SimulationError together with the partial
// result.
func (e *Engine) Run(ctx context.Context, steps int) (*dynamo.Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	result := &dynamo.Result{
		Metrics: make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	initialEnergy := physics.Energy(e.bodies)
	e.notify()

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if err := e.Step(); err != nil {
			runErr = &dynamo.SimulationError{Step: e.steps, Time: e.time, Wrapped: err}
			break
		}
		result.StepsTaken++
		e.notify()
	}

	result.Time = e.time

	finalEnergy := physics.Energy(e.bodies)
	if initialEnergy != 0 && !math.IsInf(initialEnergy, 0) {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

func (e *Engine) notify() {
	if len(e.metrics) == 0 && len(e.observers) == 0 {
		return
	}
	bodies := e.Bodies()
	for _, m := range e.metrics {
		m.Observe(bodies, e.time)
	}
	for _, o := range e.observers {
		o.OnStep(bodies, e.time)
	}
}
