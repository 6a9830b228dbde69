package viz

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	frameRate     = 60
	canvasWidth   = 80
	canvasHeight  = 36
	driftCapacity = 240

	// dotsPerPixel converts the engine's display scale (screen pixels per
	// metre) into braille dots.
	dotsPerPixel = 0.25

	// clickSlack widens the hit area around a body, in screen pixels.
	clickSlack = 15

	// canvas origin inside the rendered view, in terminal cells
	canvasLeft = 2
	canvasTop  = 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives an engine from the bubbletea loop. Pause lives here; the
// engine knows nothing about it.
type Model struct {
	engine        *sim.Engine
	system        string
	canvas        *Canvas
	ramps         [][]string
	running       bool
	stepsPerFrame int
	err           error

	energy0 float64
	drift   []float64
}

// NewModel wraps e. stepsPerFrame below one is treated as one.
func NewModel(e *sim.Engine, system string, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	bodies := e.Bodies()
	ramps := make([][]string, len(bodies))
	for i, b := range bodies {
		ramps[i] = fadeRamp(b.Color, fadeLevels)
	}
	m := Model{
		engine:        e,
		system:        system,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		ramps:         ramps,
		running:       true,
		stepsPerFrame: stepsPerFrame,
		energy0:       physics.Energy(bodies),
		drift:         make([]float64, 0, driftCapacity),
	}
	m.draw()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Err is the step error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Running() bool { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - sidebarWidth - 2*canvasLeft - 4
		h := msg.Height - 2*canvasTop
		if w < 20 {
			w = 20
		}
		if h < 10 {
			h = 10
		}
		m.canvas = NewCanvas(w, h)
		m.draw()
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "esc", "q", "ctrl+c":
			return m, tea.Quit
		case "p", " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.engine.ClearSelection()
		case "+", "=":
			_ = m.engine.SetScaleMultiplier(1.1)
		case "-":
			_ = m.engine.SetScaleMultiplier(0.9)
		case "tab":
			m.cycleSelection(1)
		case "shift+tab":
			m.cycleSelection(-1)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			_ = m.engine.SelectIndex(int(key[0] - '1'))
		}
		m.draw()
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			x := (msg.X-canvasLeft)*2 + 1
			y := (msg.Y-canvasTop)*4 + 2
			if i := m.bodyAt(x, y); i >= 0 {
				_ = m.engine.SelectIndex(i)
				m.draw()
			}
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.engine.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
	}

	if m.energy0 == 0 || math.IsInf(m.energy0, 0) {
		return
	}
	d := (physics.Energy(m.engine.Bodies()) - m.energy0) / math.Abs(m.energy0)
	if len(m.drift) == driftCapacity {
		copy(m.drift, m.drift[1:])
		m.drift = m.drift[:driftCapacity-1]
	}
	m.drift = append(m.drift, d)
}

func (m *Model) cycleSelection(dir int) {
	n := m.engine.Len()
	i := m.engine.SelectedIndex()
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+dir)%n + n) % n
	}
	_ = m.engine.SelectIndex(i)
}

// centre is the world point drawn at the middle of the canvas.
func (m *Model) centre() r2.Vec {
	if ref, ok := m.engine.Reference(); ok {
		return ref.Pos
	}
	return r2.Vec{}
}

// project maps a world position to canvas dots.
func (m *Model) project(p, centre r2.Vec) (int, int) {
	k := m.engine.Scale() * dotsPerPixel
	x := float64(m.canvas.SubWidth()/2) + (p.X-centre.X)*k
	y := float64(m.canvas.SubHeight()/2) + (p.Y-centre.Y)*k
	return clampDot(x), clampDot(y)
}

// clampDot keeps far off-canvas points from overflowing int conversion.
func clampDot(v float64) int {
	const limit = 1 << 20
	switch {
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return int(math.Round(v))
}

func dotRadius(b physics.Body) int {
	r := int(math.Round(b.Radius * dotsPerPixel / 2))
	if r < 1 {
		r = 1
	}
	return r
}

// bodyAt returns the index of the body nearest to dot (x, y) within its
// radius plus slack, or -1.
func (m *Model) bodyAt(x, y int) int {
	centre := m.centre()
	best, bestDist := -1, math.Inf(1)
	for i, b := range m.engine.Bodies() {
		px, py := m.project(b.Pos, centre)
		d := math.Hypot(float64(x-px), float64(y-py))
		if d <= (b.Radius+clickSlack)*dotsPerPixel && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	centre := m.centre()
	w, h := c.SubWidth(), c.SubHeight()
	visible := func(x, y int) bool {
		return x > -w && x < 2*w && y > -h && y < 2*h
	}

	for i := 0; i < m.engine.Len(); i++ {
		pts := m.engine.TrailAt(i)
		if len(pts) < 2 {
			continue
		}
		ramp := m.ramps[i]
		x0, y0 := m.project(pts[0], centre)
		for j := 1; j < len(pts); j++ {
			x1, y1 := m.project(pts[j], centre)
			if visible(x0, y0) && visible(x1, y1) {
				c.DrawLine(x0, y0, x1, y1, ramp[j*len(ramp)/len(pts)])
			}
			x0, y0 = x1, y1
		}
	}

	selected := m.engine.SelectedIndex()
	for i, b := range m.engine.Bodies() {
		x, y := m.project(b.Pos, centre)
		r := dotRadius(b)
		c.Disc(x, y, r, bodyColour(b.Color))
		if i == selected {
			c.Ring(x, y, r+2, "#FFFFFF")
		}
	}
}

// Run starts the live view and blocks until the user quits. A step error
// that stopped the simulation is returned after the screen is restored.
func Run(e *sim.Engine, system string, stepsPerFrame int) error {
	p := tea.NewProgram(NewModel(e, system, stepsPerFrame), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
