package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Track is one body's path for an orbit plot.
type Track struct {
	Name   string
	Colour string
	Points []r2.Vec
}

// OrbitsToSVG draws every track into a single square-scaled SVG, so circular
// orbits stay circular. The last point of each track is marked with a dot.
func OrbitsToSVG(tracks []Track, width, height int) (string, error) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	n := 0
	for _, t := range tracks {
		for _, p := range t.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			n++
		}
	}
	if n == 0 {
		return "", fmt.Errorf("no points to draw")
	}

	// Add padding
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	k := math.Min(float64(width), float64(height)) / span
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	project := func(p r2.Vec) (float64, float64) {
		return float64(width)/2 + (p.X-cx)*k, float64(height)/2 + (p.Y-cy)*k
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
`, width, height, width, height))

	for _, t := range tracks {
		if len(t.Points) == 0 {
			continue
		}
		colour := strokeColour(t.Colour)

		if len(t.Points) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" d="M`, colour))
			for i, p := range t.Points {
				x, y := project(p)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(t.Points[len(t.Points)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"><title>%s</title></circle>
`, x, y, colour, escape(t.Name)))
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// strokeColour normalises a #rrggbb colour and falls back to white for
// anything else.
func strokeColour(s string) string {
	c, err := colorful.Hex(s)
	if err != nil {
		return "#ffffff"
	}
	return c.Hex()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
