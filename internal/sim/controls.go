package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/physics"
)

// Scale is the display scale in display units per metre. It never feeds
// into the physics.
func (e *Engine) Scale() float64 { return e.scale }

// SetScaleMultiplier compounds the display scale by factor. There are no
// bounds on the result; only non-positive or non-finite factors are refused.
func (e *Engine) SetScaleMultiplier(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %g", dynamo.ErrInvalidScale, factor)
	}
	e.scale *= factor
	return nil
}

func (e *Engine) Select(name string) error {
	i, ok := e.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownBody, name)
	}
	e.selected = i
	return nil
}

func (e *Engine) SelectIndex(i int) error {
	if i < 0 || i >= len(e.bodies) {
		return fmt.Errorf("%w: index %d", dynamo.ErrUnknownBody, i)
	}
	e.selected = i
	return nil
}

func (e *Engine) ClearSelection() { e.selected = -1 }

// Selected returns the selected body, if any.
func (e *Engine) Selected() (physics.Body, bool) {
	if e.selected < 0 {
		return physics.Body{}, false
	}
	return e.bodies[e.selected], true
}

// SelectedIndex is -1 when nothing is selected.
func (e *Engine) SelectedIndex() int { return e.selected }
