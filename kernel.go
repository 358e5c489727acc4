package neuromorphic

import (
	"fmt"
	"math"
	"strings"
)

// Kernel returns the synaptic weight factor of a neuron whose last spike happened `since`
// time units ago. A neuron which never spiked has a NaN `since`.
type Kernel func(since float64) float64

// neverSpiked is the time since the last spike of a neuron which never spiked.
var neverSpiked = math.NaN()

// Dirac returns 1 only on the tick of the spike.
func Dirac(since float64) float64 {
	if since == 0 {
		return 1
	}
	return 0
}

// AlphaKernel returns the alpha function (t/τ)·exp(1-t/τ), which peaks at 1 for t=τ.
func AlphaKernel(τ float64) Kernel {
	return func(since float64) float64 {
		if math.IsNaN(since) || since < 0 {
			return 0
		}
		return since / τ * math.Exp(1-since/τ)
	}
}

// ExponentialKernel returns exp(-t/τ).
func ExponentialKernel(τ float64) Kernel {
	return func(since float64) float64 {
		if math.IsNaN(since) || since < 0 {
			return 0
		}
		return math.Exp(-since / τ)
	}
}

// ParseKernel returns the named kernel (dirac, alpha or exponential).
// The decaying kernels require a positive time constant.
func ParseKernel(name string, τ float64) (Kernel, error) {
	var build func(float64) Kernel
	switch kind := strings.ToLower(strings.TrimSpace(name)); kind {
	case "dirac", "":
		return Dirac, nil
	case "alpha":
		build = AlphaKernel
	case "exponential", "exp":
		build = ExponentialKernel
	default:
		return nil, fmt.Errorf("unknown kernel %q: %w", name, ErrInvalidConfig)
	}
	if τ <= 0 || math.IsNaN(τ) || math.IsInf(τ, 0) {
		return nil, fmt.Errorf("kernel %s requires a positive time constant, got %g: %w", name, τ, ErrInvalidConfig)
	}
	return build(τ), nil
}
