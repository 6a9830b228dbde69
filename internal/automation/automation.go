package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sweep runs the same system over a fixed simulated duration at several
// time steps.
type Sweep struct {
	Dts      []float64
	Duration float64 // seconds of simulated time per run
	Parallel int     // concurrent runs; zero means one per time step
}

// SweepResult holds the diagnostics of one sweep run.
type SweepResult struct {
	Dt            float64
	Steps         int
	EnergyDrift   float64
	MomentumDrift float64
	Elapsed       time.Duration
	Err           error
}

// RunSweep executes the sweep. A run that fails records its error in the
// result and does not stop the others. Results are ordered by time step,
// largest first.
func RunSweep(ctx context.Context, sys *config.System, sweep Sweep) ([]SweepResult, error) {
	if len(sweep.Dts) == 0 {
		return nil, fmt.Errorf("sweep needs at least one time step")
	}
	if !(sweep.Duration > 0) {
		return nil, fmt.Errorf("sweep duration must be positive, got %g", sweep.Duration)
	}

	results := make([]SweepResult, len(sweep.Dts))
	g, ctx := errgroup.WithContext(ctx)
	if sweep.Parallel > 0 {
		g.SetLimit(sweep.Parallel)
	}

	for i, dt := range sweep.Dts {
		g.Go(func() error {
			results[i] = runAt(ctx, sys, dt, sweep.Duration)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Dt > results[j].Dt })
	return results, nil
}

func runAt(ctx context.Context, sys *config.System, dt, duration float64) SweepResult {
	res := SweepResult{Dt: dt}
	if !(dt > 0) {
		res.Err = fmt.Errorf("time step must be positive, got %g", dt)
		return res
	}

	e, err := sys.NewEngine(sim.WithDt(dt))
	if err != nil {
		res.Err = err
		return res
	}
	energy, momentum := metrics.NewEnergyDrift(), metrics.NewMomentumDrift()
	e.AddMetric(energy)
	e.AddMetric(momentum)

	steps := int(math.Ceil(duration / dt))
	start := time.Now()
	out, err := e.Run(ctx, steps)
	res.Elapsed = time.Since(start)
	res.Err = err
	if out != nil {
		res.Steps = out.StepsTaken
	}
	res.EnergyDrift = energy.Value()
	res.MomentumDrift = momentum.Value()
	return res
}

// MonteCarloConfig perturbs every non-reference velocity by a random factor
// in [1-Perturbation, 1+Perturbation] and checks which bodies stay bound.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Duration     float64
	Seed         int64
	Parallel     int
}

// MonteCarloResult holds the outcome of one perturbed trial.
type MonteCarloResult struct {
	TrialID int
	Escaped []string
	Stable  bool
	Err     error
}

// RunMonteCarlo runs the trials. Trial i always uses the same random stream
// for a given seed, regardless of scheduling.
func RunMonteCarlo(ctx context.Context, sys *config.System, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("need at least one trial")
	}
	if !(cfg.Duration > 0) {
		return nil, fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Parallel > 0 {
		g.SetLimit(cfg.Parallel)
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(trial)))
			results[trial] = runTrial(ctx, perturb(sys, cfg.Perturbation, rng), cfg.Duration)
			results[trial].TrialID = trial
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func perturb(sys *config.System, amount float64, rng *rand.Rand) *config.System {
	out := sys.Clone()
	for i := range out.Bodies {
		if out.Bodies[i].Reference {
			continue
		}
		f := 1 + (rng.Float64()-0.5)*2*amount
		out.Bodies[i].VX *= f
		out.Bodies[i].VY *= f
	}
	return out
}

func runTrial(ctx context.Context, sys *config.System, duration float64) MonteCarloResult {
	e, err := sys.NewEngine()
	if err != nil {
		return MonteCarloResult{Err: err}
	}
	if _, err := e.Run(ctx, int(math.Ceil(duration/e.Dt()))); err != nil {
		return MonteCarloResult{Err: err}
	}
	escaped := Escaped(e.Bodies())
	return MonteCarloResult{Escaped: escaped, Stable: len(escaped) == 0}
}

// Escaped lists the bodies whose two-body orbital energy relative to the
// reference body is non-negative. Without a reference body nothing escapes.
func Escaped(bodies []physics.Body) []string {
	ref := -1
	for i, b := range bodies {
		if b.Reference {
			ref = i
		}
	}
	if ref < 0 {
		return nil
	}

	c := bodies[ref]
	var out []string
	for i, b := range bodies {
		if i == ref {
			continue
		}
		r := r2.Norm(r2.Sub(b.Pos, c.Pos))
		v := r2.Norm(r2.Sub(b.Vel, c.Vel))
		if r == 0 || 0.5*v*v-physics.G*(c.Mass+b.Mass)/r >= 0 {
			out = append(out, b.Name)
		}
	}
	return out
}
