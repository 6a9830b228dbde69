package config

import (
	"fmt"
	"os"

	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = sim.DefaultDt
	DefaultPixelsPerAU = 60.0
	DefaultIntegrator  = "symplectic"
)

// System is a body set plus the run settings stored alongside it.
type System struct {
	Name        string             `yaml:"name"`
	Dt          float64            `yaml:"dt"`
	PixelsPerAU float64            `yaml:"pixels_per_au"`
	Integrator  string             `yaml:"integrator,omitempty"`
	Workers     int                `yaml:"workers,omitempty"`
	Bodies      []physics.BodySpec `yaml:"bodies"`
}

func DefaultSystem() *System {
	return &System{
		Dt:          DefaultDt,
		PixelsPerAU: DefaultPixelsPerAU,
		Integrator:  DefaultIntegrator,
	}
}

// Load reads a system file. Missing settings fall back to the defaults and
// the body set is validated before it is returned.
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sys := DefaultSystem()
	if err := yaml.Unmarshal(data, sys); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, err := physics.Validate(sys.Bodies); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sys, nil
}

func Save(path string, sys *System) error {
	data, err := yaml.Marshal(sys)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Scale converts the configured pixels per AU into display units per metre.
func (s *System) Scale() float64 {
	return s.PixelsPerAU / physics.AU
}

// NewEngine builds an engine from the system. Options in extra are applied
// last and override the file.
func (s *System) NewEngine(extra ...sim.Option) (*sim.Engine, error) {
	name := s.Integrator
	if name == "" {
		name = DefaultIntegrator
	}
	integ, err := integrators.Get(name)
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{
		sim.WithDt(s.Dt),
		sim.WithScale(s.Scale()),
		sim.WithIntegrator(integ),
	}
	if s.Workers > 1 {
		opts = append(opts, sim.WithWorkers(s.Workers))
	}
	return sim.New(s.Bodies, append(opts, extra...)...)
}

// Clone returns a deep copy.
func (s *System) Clone() *System {
	c := *s
	c.Bodies = append([]physics.BodySpec(nil), s.Bodies...)
	return &c
}
