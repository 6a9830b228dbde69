package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	sunMass   = 1.98892e30
	earthMass = 5.97e24
	earthX    = 1.496e11
	earthVY   = 29783.0
)

func earthSun() []physics.BodySpec {
	return []physics.BodySpec{
		{Name: "Sun", Mass: sunMass, Reference: true},
		{Name: "Earth", Mass: earthMass, X: earthX, VY: earthVY},
	}
}

func mustEngine(specs []physics.BodySpec, opts ...sim.Option) *sim.Engine {
	e, err := sim.New(specs, opts...)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func solarSpecs() []physics.BodySpec {
	sys := config.GetPreset("solar")
	Expect(sys).NotTo(BeNil())
	return sys.Bodies
}

func stepN(e *sim.Engine, n int) {
	for i := 0; i < n; i++ {
		Expect(e.Step()).To(Succeed())
	}
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("rejects non-positive masses", func() {
			specs := earthSun()
			specs[1].Mass = 0
			_, err := sim.New(specs)
			Expect(err).To(MatchError(physics.ErrConfiguration))
		})

		It("rejects more than one reference body", func() {
			specs := earthSun()
			specs[1].Reference = true
			_, err := sim.New(specs)
			Expect(err).To(MatchError(physics.ErrConfiguration))
		})

		It("rejects a non-positive time step", func() {
			_, err := sim.New(earthSun(), sim.WithDt(0))
			Expect(err).To(MatchError(physics.ErrConfiguration))
		})

		It("keeps body order and starts with empty trails", func() {
			e := mustEngine(solarSpecs())
			bodies := e.Bodies()
			Expect(bodies).To(HaveLen(9))
			Expect(bodies[0].Name).To(Equal("Sun"))
			Expect(bodies[8].Name).To(Equal("Neptune"))
			Expect(e.TrailAt(3)).To(BeEmpty())
			Expect(e.Dt()).To(Equal(sim.DefaultDt))
			Expect(e.Integrator()).To(Equal("symplectic"))
		})
	})

	Describe("stepping", func() {
		It("keeps every component finite", func() {
			e := mustEngine(solarSpecs())
			stepN(e, 2000)
			for _, b := range e.Bodies() {
				Expect(physics.Finite(b.Pos)).To(BeTrue(), b.Name)
				Expect(physics.Finite(b.Vel)).To(BeTrue(), b.Name)
			}
		})

		It("conserves total momentum over a step", func() {
			e := mustEngine(solarSpecs())
			before := physics.Momentum(e.Bodies())
			scale := physics.MomentumScale(e.Bodies())

			Expect(e.Step()).To(Succeed())

			after := physics.Momentum(e.Bodies())
			Expect(r2.Norm(r2.Sub(after, before)) / scale).To(BeNumerically("<", 1e-12))
		})

		It("updates velocity before position", func() {
			e := mustEngine(earthSun())
			start := e.Bodies()
			Expect(e.Step()).To(Succeed())
			earth := e.Bodies()[1]

			pull, err := physics.NetForce(start, 1)
			Expect(err).NotTo(HaveOccurred())

			dt := sim.DefaultDt
			wantVel := r2.Vec{
				X: start[1].Vel.X + pull.Force.X/earthMass*dt,
				Y: start[1].Vel.Y + pull.Force.Y/earthMass*dt,
			}
			wantPos := r2.Vec{X: earthX + wantVel.X*dt, Y: wantVel.Y * dt}

			Expect(earth.Vel).To(Equal(wantVel))
			Expect(earth.Pos).To(Equal(wantPos))
		})

		It("reads a single snapshot for all forces", func() {
			specs := solarSpecs()
			e := mustEngine(specs)
			start := e.Bodies()

			want := make([]r2.Vec, len(start))
			for i := range start {
				p, err := physics.NetForce(start, i)
				Expect(err).NotTo(HaveOccurred())
				want[i] = r2.Vec{
					X: start[i].Vel.X + p.Force.X/start[i].Mass*sim.DefaultDt,
					Y: start[i].Vel.Y + p.Force.Y/start[i].Mass*sim.DefaultDt,
				}
			}

			Expect(e.Step()).To(Succeed())
			for i, b := range e.Bodies() {
				Expect(b.Vel).To(Equal(want[i]), b.Name)
			}
		})

		It("keeps energy bounded where explicit Euler drifts", func() {
			drift := func(opts ...sim.Option) float64 {
				e := mustEngine(earthSun(), opts...)
				m := metrics.NewEnergyDrift()
				e.AddMetric(m)
				_, err := e.Run(ctx(), 3650)
				Expect(err).NotTo(HaveOccurred())
				return m.Value()
			}

			symplectic := drift()
			explicit := drift(sim.WithIntegrator(integrators.NewEuler()))

			Expect(symplectic).To(BeNumerically("<", 0.05))
			Expect(explicit).To(BeNumerically(">", 0.1))
			Expect(explicit).To(BeNumerically(">", 3*symplectic))
		})

		It("is deterministic and independent of the worker count", func() {
			seq := mustEngine(solarSpecs())
			par := mustEngine(solarSpecs(), sim.WithWorkers(4))
			again := mustEngine(solarSpecs())

			stepN(seq, 250)
			stepN(par, 250)
			stepN(again, 250)

			Expect(par.Bodies()).To(Equal(seq.Bodies()))
			Expect(again.Bodies()).To(Equal(seq.Bodies()))
		})
	})

	Describe("trails", func() {
		It("hold at most the most recent 400 positions, oldest first", func() {
			e := mustEngine(earthSun())

			var history []r2.Vec
			for i := 0; i < 450; i++ {
				Expect(e.Step()).To(Succeed())
				b, err := e.Body("Earth")
				Expect(err).NotTo(HaveOccurred())
				history = append(history, b.Pos)

				tr, err := e.Trail("Earth")
				Expect(err).NotTo(HaveOccurred())
				Expect(len(tr)).To(BeNumerically("<=", physics.TrailCapacity))
			}

			tr, err := e.Trail("Earth")
			Expect(err).NotTo(HaveOccurred())
			Expect(tr).To(HaveLen(physics.TrailCapacity))
			Expect(tr).To(Equal(history[len(history)-physics.TrailCapacity:]))
		})

		It("rejects unknown bodies", func() {
			e := mustEngine(earthSun())
			_, err := e.Trail("Pluto")
			Expect(err).To(MatchError(dynamo.ErrUnknownBody))
		})
	})

	Describe("distance to reference", func() {
		It("is the pre-step distance after one step", func() {
			e := mustEngine(earthSun())
			start := e.Bodies()
			want := r2.Norm(r2.Sub(start[0].Pos, start[1].Pos))

			Expect(e.Step()).To(Succeed())

			earth, err := e.Body("Earth")
			Expect(err).NotTo(HaveOccurred())
			Expect(earth.DistanceToReference).To(Equal(want))

			sun, _ := e.Reference()
			Expect(sun.DistanceToReference).To(BeZero())
		})

		It("stays zero without a reference body", func() {
			specs := earthSun()
			specs[0].Reference = false
			e := mustEngine(specs)
			stepN(e, 10)

			_, ok := e.Reference()
			Expect(ok).To(BeFalse())
			for _, b := range e.Bodies() {
				Expect(b.DistanceToReference).To(BeZero())
			}
		})
	})

	Describe("singularities", func() {
		It("fails the step and leaves state untouched", func() {
			specs := []physics.BodySpec{
				{Name: "A", Mass: 1e24, X: 1e9, Y: 2e9},
				{Name: "B", Mass: 2e24, X: 1e9, Y: 2e9},
				{Name: "C", Mass: 3e24, X: -5e9},
			}
			e := mustEngine(specs)
			before := e.Bodies()

			err := e.Step()
			Expect(err).To(MatchError(physics.ErrSingularity))

			var se *physics.SingularityError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect([]string{se.A, se.B}).To(ConsistOf("A", "B"))

			Expect(e.Bodies()).To(Equal(before))
			Expect(e.Steps()).To(BeZero())
			Expect(e.TrailAt(2)).To(BeEmpty())
		})

		It("propagates from parallel force passes", func() {
			specs := []physics.BodySpec{
				{Name: "A", Mass: 1e24},
				{Name: "B", Mass: 1e24, X: 1e9},
				{Name: "C", Mass: 1e24, X: 1e9},
			}
			e := mustEngine(specs, sim.WithWorkers(3))
			Expect(e.Step()).To(MatchError(physics.ErrSingularity))
		})
	})

	Describe("control surface", func() {
		It("compounds the scale without touching the physics", func() {
			e := mustEngine(earthSun())
			stepN(e, 3)
			before := e.Bodies()
			original := e.Scale()

			Expect(e.SetScaleMultiplier(1.1)).To(Succeed())
			Expect(e.SetScaleMultiplier(1.1)).To(Succeed())

			Expect(e.Scale()).To(BeNumerically("~", original*1.21, original*1e-12))
			Expect(e.Bodies()).To(Equal(before))
		})

		It("refuses non-positive factors", func() {
			e := mustEngine(earthSun())
			original := e.Scale()
			Expect(e.SetScaleMultiplier(0)).To(MatchError(dynamo.ErrInvalidScale))
			Expect(e.SetScaleMultiplier(-2)).To(MatchError(dynamo.ErrInvalidScale))
			Expect(e.SetScaleMultiplier(math.NaN())).To(MatchError(dynamo.ErrInvalidScale))
			Expect(e.Scale()).To(Equal(original))
		})

		It("tracks the selected body", func() {
			e := mustEngine(earthSun())

			_, ok := e.Selected()
			Expect(ok).To(BeFalse())

			Expect(e.Select("Earth")).To(Succeed())
			b, ok := e.Selected()
			Expect(ok).To(BeTrue())
			Expect(b.Name).To(Equal("Earth"))
			Expect(e.SelectedIndex()).To(Equal(1))

			Expect(e.Select("Pluto")).To(MatchError(dynamo.ErrUnknownBody))
			Expect(e.SelectedIndex()).To(Equal(1))

			Expect(e.SelectIndex(0)).To(Succeed())
			Expect(e.SelectIndex(7)).To(MatchError(dynamo.ErrUnknownBody))

			e.ClearSelection()
			_, ok = e.Selected()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("one simulated year", func() {
		It("brings an Earth analog back round its star", func() {
			e := mustEngine(earthSun())
			start, _ := e.Body("Earth")
			revs := metrics.NewRevolutions("Earth")
			e.AddMetric(revs)

			res, err := e.Run(ctx(), 365)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(365))

			earth, _ := e.Body("Earth")
			Expect(revs.Value()).To(BeNumerically("~", 1, 0.05))
			Expect(math.Abs(earth.DistanceToReference-earthX) / earthX).To(BeNumerically("<", 0.05))
			Expect(r2.Norm(r2.Sub(earth.Pos, start.Pos)) / earthX).To(BeNumerically("<", 0.05))
		})
	})
})
