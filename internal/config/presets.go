package config

import (
	"sort"

	"github.com/san-kum/solarsim/internal/physics"
)

const (
	sunMass   = 1.98892e30
	earthMass = 5.9742e24
)

var solarBodies = []physics.BodySpec{
	{
		Name: "Sun", Mass: sunMass, Radius: 20, Reference: true, Color: "#FFFF00",
		Description: "The star at the centre of the solar system. It supplies the energy for all life on Earth.",
	},
	{
		Name: "Mercury", Mass: 3.30e23, X: 0.387 * physics.AU, VY: -47.4 * 1000, Radius: 5, Color: "#504E51",
		Description: "The smallest planet and the closest to the Sun, with extreme swings between day and night.",
	},
	{
		Name: "Venus", Mass: 4.8685e24, X: 0.723 * physics.AU, VY: -35.02 * 1000, Radius: 9, Color: "#FFDCB4",
		Description: "The hottest planet, wrapped in a thick carbon dioxide atmosphere. Often called Earth's twin.",
	},
	{
		Name: "Earth", Mass: earthMass, X: -1 * physics.AU, VY: 29.783 * 1000, Radius: 10, Color: "#6495ED",
		Description: "The third planet from the Sun and the only one known to harbour life.",
	},
	{
		Name: "Mars", Mass: 6.39e23, X: -1.524 * physics.AU, VY: 24.077 * 1000, Radius: 7, Color: "#BC2732",
		Description: "The red planet, home to the tallest volcano in the solar system and two small moons.",
	},
	{
		Name: "Jupiter", Mass: 1.898e27, X: 5.203 * physics.AU, VY: 13.07 * 1000, Radius: 22, Color: "#FFA500",
		Description: "The largest planet, with dozens of moons and a faint ring system.",
	},
	{
		Name: "Saturn", Mass: 5.683e26, X: 9.537 * physics.AU, VY: 9.69 * 1000, Radius: 19, Color: "#D2B48C",
		Description: "Known for its spectacular rings. The second largest planet after Jupiter.",
	},
	{
		Name: "Uranus", Mass: 8.681e25, X: 19.191 * physics.AU, VY: 6.81 * 1000, Radius: 15, Color: "#00FFFF",
		Description: "An ice giant tilted 98 degrees on its axis, blue-green in colour.",
	},
	{
		Name: "Neptune", Mass: 1.024e26, X: 30.07 * physics.AU, VY: 5.43 * 1000, Radius: 15, Color: "#800080",
		Description: "The outermost planet, with the strongest winds in the solar system.",
	},
}

var Presets = map[string]*System{
	"solar": {
		Name: "solar", Dt: DefaultDt, PixelsPerAU: DefaultPixelsPerAU, Integrator: DefaultIntegrator,
		Bodies: solarBodies,
	},
	"inner": {
		Name: "inner", Dt: DefaultDt, PixelsPerAU: 4 * DefaultPixelsPerAU, Integrator: DefaultIntegrator,
		Bodies: solarBodies[:5],
	},
	"earth_sun": {
		Name: "earth_sun", Dt: DefaultDt, PixelsPerAU: 4 * DefaultPixelsPerAU, Integrator: DefaultIntegrator,
		Bodies: []physics.BodySpec{
			{Name: "Sun", Mass: sunMass, Radius: 20, Reference: true, Color: "#FFFF00"},
			{Name: "Earth", Mass: earthMass, X: 1.496e11, VY: 29783, Radius: 10, Color: "#6495ED"},
		},
	},
	"binary": binary(),
}

// binary puts two equal stars one AU apart on a shared circular orbit, with
// a planet circling the pair at four AU. No body is the reference.
func binary() *System {
	sep := physics.AU
	v := physics.CircularSpeed(sunMass, 2*sep)
	planetR := 4 * physics.AU
	return &System{
		Name: "binary", Dt: DefaultDt, PixelsPerAU: 2 * DefaultPixelsPerAU, Integrator: DefaultIntegrator,
		Bodies: []physics.BodySpec{
			{Name: "Alpha", Mass: sunMass, X: -sep / 2, VY: -v, Radius: 16, Color: "#FFD27F"},
			{Name: "Beta", Mass: sunMass, X: sep / 2, VY: v, Radius: 16, Color: "#9BB0FF"},
			{
				Name: "Tatooine", Mass: earthMass, Y: planetR, VX: -physics.CircularSpeed(2*sunMass, planetR),
				Radius: 8, Color: "#C2B280",
			},
		},
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *System {
	sys, ok := Presets[name]
	if !ok {
		return nil
	}
	return sys.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
