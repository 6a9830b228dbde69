package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, "#FF0000")
	c.Set(3, 3, "#00FF00")
	c.Set(-1, 0, "#0000FF")
	c.Set(4, 0, "#0000FF")

	if got := c.Grid[0][0]; got != blank|0x1 {
		t.Errorf("cell 0 = %U, want %U", got, blank|0x1)
	}
	if got := c.Grid[0][1]; got != blank|0x80 {
		t.Errorf("cell 1 = %U, want %U", got, blank|0x80)
	}
	if !c.Lit(3, 3) || c.Lit(2, 3) {
		t.Error("Lit disagrees with Set")
	}
	if c.Ink[0][0] != "#FF0000" || c.Ink[0][1] != "#00FF00" {
		t.Errorf("unexpected ink %v", c.Ink[0])
	}

	c.Clear()
	if c.String() != string([]rune{blank, blank})+"\n" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 0, "")
	for x := 0; x < 20; x++ {
		if !c.Lit(x, 0) {
			t.Fatalf("dot %d on the line is not lit", x)
		}
	}

	c.Clear()
	c.Disc(10, 10, 2, "")
	if !c.Lit(10, 10) || !c.Lit(12, 10) || c.Lit(12, 12) {
		t.Error("disc has the wrong shape")
	}

	c.Clear()
	c.Ring(10, 10, 3, "")
	if c.Lit(10, 10) || !c.Lit(13, 10) || !c.Lit(10, 7) {
		t.Error("ring has the wrong shape")
	}
}

func TestCanvasRenderKeepsGlyphs(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0, "#FF0000")
	c.Set(2, 0, "#FF0000")
	out := c.Render()
	for _, r := range c.String() {
		if r != '\n' && !strings.ContainsRune(out, r) {
			t.Errorf("rendered output lost %U", r)
		}
	}
}

func TestFadeRamp(t *testing.T) {
	ramp := fadeRamp("#6495ED", 4)
	if len(ramp) != 4 {
		t.Fatalf("expected 4 shades, got %d", len(ramp))
	}
	if ramp[0] == ramp[3] {
		t.Error("oldest shade should be dimmer")
	}
	if bodyColour("not a colour") != "#ffffff" {
		t.Errorf("bad colours should fall back to white, got %s", bodyColour("x"))
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	e, err := sim.New([]physics.BodySpec{
		{Name: "Sun", Mass: 1.98892e30, Radius: 20, Reference: true, Color: "#FFFF00"},
		{Name: "Earth", Mass: 5.9742e24, X: physics.AU, VY: 29783, Radius: 10, Color: "#6495ED"},
		{Name: "Mars", Mass: 6.39e23, X: -1.524 * physics.AU, VY: -24077, Radius: 7, Color: "#BC2732"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(e, "test", 2)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPauseKeys(t *testing.T) {
	m := newTestModel(t)
	if !m.Running() {
		t.Fatal("model should start running")
	}

	m, _ = send(m, runes("p"))
	if m.Running() {
		t.Error("p should pause")
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Running() {
		t.Error("space should resume")
	}
}

func TestTickAdvancesOnlyWhenRunning(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	if m.engine.Steps() != 2 {
		t.Errorf("steps = %d, want 2", m.engine.Steps())
	}

	m, _ = send(m, runes("p"))
	m, _ = send(m, TickMsg{})
	if m.engine.Steps() != 2 {
		t.Errorf("paused model stepped to %d", m.engine.Steps())
	}
}

func TestZoomKeys(t *testing.T) {
	m := newTestModel(t)
	base := m.engine.Scale()
	before := m.engine.Bodies()

	m, _ = send(m, runes("+"))
	m, _ = send(m, runes("="))
	if got := m.engine.Scale(); got < base*1.2099 || got > base*1.2101 {
		t.Errorf("scale = %g, want %g", got, base*1.21)
	}

	m, _ = send(m, runes("-"))
	if got := m.engine.Scale(); got < base*1.0889 || got > base*1.0891 {
		t.Errorf("scale = %g, want %g", got, base*1.089)
	}

	for i, b := range m.engine.Bodies() {
		if b != before[i] {
			t.Errorf("zoom changed %s", b.Name)
		}
	}
}

func TestSelectionKeys(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, 0},
		{tea.KeyMsg{Type: tea.KeyTab}, 1},
		{runes("3"), 2},
		{tea.KeyMsg{Type: tea.KeyTab}, 0},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, 2},
		{runes("9"), 2},
		{runes("r"), -1},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, 2},
	}

	for i, tt := range tests {
		m, _ = send(m, tt.msg)
		if got := m.engine.SelectedIndex(); got != tt.want {
			t.Errorf("step %d (%s): selected %d, want %d", i, tt.msg, got, tt.want)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		runes("q"),
		{Type: tea.KeyEscape},
		{Type: tea.KeyCtrlC},
	} {
		m := newTestModel(t)
		_, cmd := send(m, msg)
		if cmd == nil {
			t.Fatalf("%s: expected a command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected quit", msg)
		}
	}
}

func TestMouseSelectsBody(t *testing.T) {
	m := newTestModel(t)

	x, y := m.project(m.engine.Bodies()[1].Pos, m.centre())
	click := tea.MouseMsg{
		X:      x/2 + canvasLeft,
		Y:      y/4 + canvasTop,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	m, _ = send(m, click)
	if got := m.engine.SelectedIndex(); got != 1 {
		t.Errorf("selected %d, want Earth", got)
	}

	// empty space keeps the selection
	m, _ = send(m, tea.MouseMsg{X: canvasLeft, Y: canvasTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.engine.SelectedIndex(); got != 1 {
		t.Errorf("click on empty space changed selection to %d", got)
	}
}

func TestStepErrorStopsLoop(t *testing.T) {
	e, err := sim.New([]physics.BodySpec{
		{Name: "A", Mass: 1e20},
		{Name: "B", Mass: 1e20},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(e, "broken", 1)

	m, _ = send(m, TickMsg{})
	if !errors.Is(m.Err(), physics.ErrSingularity) {
		t.Fatalf("expected singularity, got %v", m.Err())
	}
	if m.Running() {
		t.Error("model should stop after a step error")
	}
	m, _ = send(m, runes("p"))
	if m.Running() {
		t.Error("resume should be refused after a step error")
	}
	if !strings.Contains(m.View(), "STOPPED") {
		t.Error("view should report the error")
	}
}

func TestViewShowsSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, TickMsg{})
	m, _ = send(m, runes("2"))

	out := m.View()
	for _, want := range []string{"EARTH", "Mass", "km/s", "1 AU = 60 px", "Mars"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
