package viz

import (
	"github.com/lucasb-eyer/go-colorful"
)

const (
	spaceColour = "#0A0A14"
	fadeLevels  = 12
)

var (
	space = mustHex(spaceColour)
	white = colorful.Color{R: 1, G: 1, B: 1}
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// parseColour falls back to white for anything that is not a #rrggbb hex.
func parseColour(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return white
	}
	return c
}

// orbitColour lightens a body colour for its trail.
func orbitColour(body string) colorful.Color {
	return parseColour(body).BlendRgb(white, 0.2).Clamped()
}

// fadeRamp returns n shades running from nearly background (index 0, the
// oldest trail points) to the full orbit colour.
func fadeRamp(body string, n int) []string {
	full := orbitColour(body)
	ramp := make([]string, n)
	for i := range ramp {
		t := 0.15 + 0.85*float64(i+1)/float64(n)
		ramp[i] = space.BlendLab(full, t).Clamped().Hex()
	}
	return ramp
}

func bodyColour(body string) string {
	return parseColour(body).Clamped().Hex()
}
