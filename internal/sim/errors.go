package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions indicates sub-steps below one or a non-positive time scale.
	ErrInvalidOptions = errors.New("sim: invalid simulator options")

	// ErrInvalidTimestep indicates a non-positive frame time delta.
	ErrInvalidTimestep = errors.New("sim: timestep must be positive")

	// ErrUnstable indicates a NaN or infinite sample after an update.
	ErrUnstable = errors.New("sim: simulation unstable (non-finite field)")
)

// SimError wraps a failure with the frame it happened on.
type SimError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error { return e.Wrapped }
