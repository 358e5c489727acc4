package neuromorphic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// ConstantInput returns the same currents at every time.
func ConstantInput(currents ...float64) InputFunc {
	c := append([]float64(nil), currents...)
	return func(float64) []float64 {
		return append([]float64(nil), c...)
	}
}

// StepInput returns the currents `on` from t=start onwards and zero before.
func StepInput(start float64, on ...float64) InputFunc {
	c := append([]float64(nil), on...)
	return func(t float64) []float64 {
		out := make([]float64, len(c))
		if t >= start {
			copy(out, c)
		}
		return out
	}
}

// GaussianBumpInput returns a Gaussian bump of current over n neurons, whose centre
// jumps between neurons 2, 5 and 8 every period: I_i(t) = exp(-(i-centre)²/variance).
func GaussianBumpInput(n int, variance, period float64) (InputFunc, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bump input over %d neurons: %w", n, ErrInvalidConfig)
	}
	if variance <= 0 || period <= 0 {
		return nil, fmt.Errorf("bump input requires a positive variance and period (got %g and %g): %w", variance, period, ErrInvalidConfig)
	}
	return func(t float64) []float64 {
		phase := int(math.Floor(t/period)) % 3
		if phase < 0 {
			phase += 3
		}
		centre := 2 + 3*float64(phase)
		out := make([]float64, n)
		for i := range out {
			d := float64(i) - centre
			out[i] = math.Exp(-d * d / variance)
		}
		return out
	}, nil
}

// NoisyInput adds independent Gaussian noise of standard deviation σ to the currents of base.
// The noise only depends on the seed and on t, so that replaying a simulation yields
// the exact same currents.
func NoisyInput(base InputFunc, σ float64, seed int64) (InputFunc, error) {
	if base == nil {
		return nil, fmt.Errorf("noisy input without base input: %w", ErrInvalidConfig)
	}
	if σ <= 0 || math.IsNaN(σ) || math.IsInf(σ, 0) {
		return nil, fmt.Errorf("noise standard deviation must be positive, got %g: %w", σ, ErrInvalidConfig)
	}
	variance := σ * σ
	return func(t float64) []float64 {
		currents := append([]float64(nil), base(t)...)
		n := len(currents)
		if n == 0 {
			return currents
		}
		cov := mat64.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			cov.SetSym(i, i, variance)
		}
		src := rand.New(rand.NewSource(seed ^ int64(math.Float64bits(t))))
		noise, ok := distmv.NewNormal(make([]float64, n), cov, src)
		if !ok {
			panic("noise covariance is not positive definite")
		}
		for i, ε := range noise.Rand(nil) {
			currents[i] += ε
		}
		return currents
	}, nil
}
