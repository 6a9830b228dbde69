package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, sidebarStyle.Render(m.sidebar()))
}

func (m Model) sidebar() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(m.system)+" SYSTEM") + "\n")
	s.WriteString(m.status() + "\n\n")

	if b, ok := m.engine.Selected(); ok {
		s.WriteString(selectedInfo(b))
	}

	s.WriteString(sectionStyle.Render("BODIES") + "\n")
	selected := m.engine.SelectedIndex()
	for i, b := range m.engine.Bodies() {
		dist := "centre"
		if !b.Reference {
			dist = fmt.Sprintf("%5.2f AU", b.DistanceToReference/physics.AU)
		}
		line := fmt.Sprintf("%d %-10s %s", i+1, b.Name, dist)
		if i == selected {
			s.WriteString(rowSelected.Render(line) + "\n")
		} else {
			s.WriteString(inked(bodyColour(b.Color)).Render(line) + "\n")
		}
	}

	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(4), asciigraph.Width(sidebarWidth-16), asciigraph.Caption("energy drift"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + keyHint.Render("click/tab/1-9: select  r: clear\n+/-: zoom  p: pause  esc: quit"))
	return s.String()
}

func (m Model) status() string {
	var parts []string
	switch {
	case m.err != nil:
		parts = append(parts, errorStyle.Render("STOPPED: "+m.err.Error()))
	case m.running:
		parts = append(parts, statusRunning.Render("RUNNING"))
	default:
		parts = append(parts, statusPaused.Render("PAUSED"))
	}
	years := m.engine.Time() / (365.25 * sim.DefaultDt)
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("t = %.2f yr", years)))
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("1 AU = %d px", int(math.Round(m.engine.Scale()*physics.AU)))))
	return strings.Join(parts, "  ")
}

func selectedInfo(b physics.Body) string {
	var s strings.Builder
	s.WriteString(sectionStyle.Foreground(lipgloss.Color(bodyColour(b.Color))).Render(strings.ToUpper(b.Name)) + "\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Mass", fmt.Sprintf("%.2e kg", b.Mass))
	if !b.Reference {
		row("Distance", fmt.Sprintf("%.2f AU", b.DistanceToReference/physics.AU))
		row("", printer.Sprintf("%.0f km", b.DistanceToReference/1000))
	}
	row("Speed", fmt.Sprintf("%.2f km/s", b.Speed()/1000))
	row("Position", fmt.Sprintf("%.2f, %.2f AU", b.Pos.X/physics.AU, b.Pos.Y/physics.AU))
	row("Velocity", fmt.Sprintf("%.2f, %.2f km/s", b.Vel.X/1000, b.Vel.Y/1000))

	if b.Description != "" {
		s.WriteString("\n" + descStyle.Render(b.Description) + "\n")
	}
	s.WriteString("\n")
	return s.String()
}
