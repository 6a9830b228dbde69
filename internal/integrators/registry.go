package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/solarsim/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"symplectic": func() dynamo.Integrator { return NewSymplecticEuler() },
	"euler":      func() dynamo.Integrator { return NewEuler() },
}

// Get returns a fresh integrator by name.
func Get(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
