package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates a body set that cannot be simulated.
	ErrConfiguration = errors.New("physics: invalid configuration")

	// ErrSingularity indicates two bodies at exactly the same position.
	ErrSingularity = errors.New("physics: singular force (coincident bodies)")
)

// ConfigError describes why a body set was rejected.
type ConfigError struct {
	Body   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: body %q: %s", ErrConfiguration, e.Body, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// SingularityError names the pair of coincident bodies.
type SingularityError struct {
	A, B string
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("%v: %q and %q", ErrSingularity, e.A, e.B)
}

func (e *SingularityError) Unwrap() error { return ErrSingularity }
