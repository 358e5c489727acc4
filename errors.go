package neuromorphic

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a name does not designate a neuron state field.
	ErrUnknownField = errors.New("unknown state field")
	// ErrDivisionByZero is returned by divisions by zero, including a zero membrane time constant.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrIndexOutOfRange is returned when writing outside of (or twice into) a time series.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrSimulationEnded is returned when updating a simulation which already ran all its steps.
	ErrSimulationEnded = errors.New("simulation has already ended")
	// ErrDimensionMismatch is returned when a vector does not match the number of neurons.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotInitialized is returned when a simulation is used before Init.
	ErrNotInitialized = errors.New("simulation not initialized")
	// ErrBusy is returned when a simulation is re-entered, typically by a subscriber, while it is
	// initializing, updating, running or resetting.
	ErrBusy = errors.New("simulation is busy")
	// ErrInvalidConfig is returned for invalid scenario or initialization parameters.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TickError wraps a failure which happened while computing a simulation tick.
// Nothing of the tick was committed.
type TickError struct {
	Iteration int
	Time      float64
	Err       error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%g): %s", e.Iteration, e.Time, e.Err)
}

// Unwrap returns the underlying error.
func (e *TickError) Unwrap() error {
	return e.Err
}
