package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
)

type countingObserver struct {
	calls int
	times []float64
}

func (c *countingObserver) OnStep(bodies []physics.Body, t float64) {
	c.calls++
	c.times = append(c.times, t)
}

type lastSeen struct {
	bodies []physics.Body
	resets int
}

func (l *lastSeen) Name() string { return "last_seen" }
func (l *lastSeen) Observe(bodies []physics.Body, t float64) {
	l.bodies = bodies
}
func (l *lastSeen) Value() float64 { return float64(len(l.bodies)) }
func (l *lastSeen) Reset()         { l.resets++ }

func pair() []physics.BodySpec {
	return []physics.BodySpec{
		{Name: "Sun", Mass: 1.98892e30, Reference: true},
		{Name: "Earth", Mass: 5.97e24, X: physics.AU, VY: 29783},
	}
}

func TestRun(t *testing.T) {
	e, err := New(pair())
	if err != nil {
		t.Fatal(err)
	}
	obs := &countingObserver{}
	m := &lastSeen{}
	e.AddObserver(obs)
	e.AddMetric(m)

	res, err := e.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.StepsTaken != 10 {
		t.Errorf("steps taken = %d, want 10", res.StepsTaken)
	}
	if res.Time != 10*DefaultDt {
		t.Errorf("time = %g, want %g", res.Time, 10*DefaultDt)
	}
	if obs.calls != 11 {
		t.Errorf("observer calls = %d, want 11 (initial state plus each step)", obs.calls)
	}
	if obs.times[0] != 0 || obs.times[10] != 10*DefaultDt {
		t.Errorf("unexpected observer times %v", obs.times)
	}
	if m.resets != 1 {
		t.Errorf("metric resets = %d, want 1", m.resets)
	}
	if res.Metrics["last_seen"] != 2 {
		t.Errorf("metric value = %g, want 2", res.Metrics["last_seen"])
	}
	if res.EnergyDrift <= 0 || res.EnergyDrift > 0.05 {
		t.Errorf("energy drift = %g, want small and positive", res.EnergyDrift)
	}

	// observers receive copies
	m.bodies[1].Mass = 0
	if b, _ := e.Body("Earth"); b.Mass == 0 {
		t.Error("observer mutation leaked into the engine")
	}
}

func TestRunRejectsNonPositiveSteps(t *testing.T) {
	e, err := New(pair())
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, -3} {
		if _, err := e.Run(context.Background(), n); err == nil {
			t.Errorf("Run(%d) should fail", n)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	e, err := New(pair())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.StepsTaken != 0 {
		t.Errorf("expected empty partial result, got %+v", res)
	}
	if e.Steps() != 0 {
		t.Errorf("engine advanced %d steps after cancellation", e.Steps())
	}
}

func TestRunWrapsStepFailure(t *testing.T) {
	e, err := New([]physics.BodySpec{
		{Name: "A", Mass: 1e20},
		{Name: "B", Mass: 1e20},
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.Run(context.Background(), 5)
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if simErr.Step != 0 || simErr.Time != 0 {
		t.Errorf("failure reported at step %d t=%g, want 0", simErr.Step, simErr.Time)
	}
	if !errors.Is(err, physics.ErrSingularity) {
		t.Error("singularity should be reachable through the wrapper")
	}
	if res.StepsTaken != 0 {
		t.Errorf("steps taken = %d, want 0", res.StepsTaken)
	}
}

func TestStepRejectsNonFiniteState(t *testing.T) {
	e, err := New([]physics.BodySpec{
		{Name: "A", Mass: 1e308},
		{Name: "B", Mass: 1e308, X: 1e-300},
	})
	if err != nil {
		t.Fatal(err)
	}
	before := e.Bodies()

	err = e.Step()
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	for i, b := range e.Bodies() {
		if b != before[i] {
			t.Errorf("body %s changed after failed step", b.Name)
		}
	}
	if len(e.TrailAt(0)) != 0 {
		t.Error("trail grew after failed step")
	}
}
