package neuromorphic

import (
	"fmt"
	"strings"
)

// UpdateStrategy selects how a neuron is advanced by one time step.
type UpdateStrategy interface {
	// Next returns the following state of n without committing it.
	Next(n *Neuron, dt, current, psp float64) (State, error)
	// Update advances n and returns whether it spiked.
	Update(n *Neuron, dt, current, psp float64) (bool, error)
	String() string
}

// EulerUpdate advances neurons with the Euler scheme.
type EulerUpdate struct{}

// Next implements the UpdateStrategy interface.
func (EulerUpdate) Next(n *Neuron, dt, current, psp float64) (State, error) {
	return n.Advance(dt, current, psp, EulerIntegrator)
}

// Update implements the UpdateStrategy interface.
func (EulerUpdate) Update(n *Neuron, dt, current, psp float64) (bool, error) {
	return n.UpdateEuler(dt, current, psp)
}

func (EulerUpdate) String() string {
	return "Euler"
}

// RK4Update advances neurons with the RK4 scheme.
type RK4Update struct{}

// Next implements the UpdateStrategy interface.
func (RK4Update) Next(n *Neuron, dt, current, psp float64) (State, error) {
	return n.Advance(dt, current, psp, RK4Integrator)
}

// Update implements the UpdateStrategy interface.
func (RK4Update) Update(n *Neuron, dt, current, psp float64) (bool, error) {
	return n.UpdateRK4(dt, current, psp)
}

func (RK4Update) String() string {
	return "RK4"
}

// ParseStrategy returns the strategy with the provided name (euler or rk4, case insensitive).
func ParseStrategy(name string) (UpdateStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euler", "":
		return EulerUpdate{}, nil
	case "rk4":
		return RK4Update{}, nil
	default:
		return nil, fmt.Errorf("unknown update strategy %q: %w", name, ErrInvalidConfig)
	}
}

// uniformStrategies returns n copies of the Euler strategy when none are provided,
// and otherwise checks there is one strategy per neuron.
func uniformStrategies(n int, strategies []UpdateStrategy) ([]UpdateStrategy, error) {
	out := make([]UpdateStrategy, n)
	if strategies == nil {
		for i := range out {
			out[i] = EulerUpdate{}
		}
		return out, nil
	}
	if len(strategies) != n {
		return nil, fmt.Errorf("%d strategies for %d neurons: %w", len(strategies), n, ErrDimensionMismatch)
	}
	for i, s := range strategies {
		if s == nil {
			s = EulerUpdate{}
		}
		out[i] = s
	}
	return out, nil
}
