package neuromorphic

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
)

// membrane integrates the sub-threshold membrane potential of a LIF neuron with the ode package.
type membrane struct {
	state    State
	u        float64
	steps    uint64
	maxSteps uint64
	err      error
}

// GetState implements the ode.Integrable interface.
func (m *membrane) GetState() []float64 {
	return []float64{m.u}
}

// SetState implements the ode.Integrable interface.
func (m *membrane) SetState(t float64, s []float64) {
	m.u = s[0]
	m.steps++
}

// Stop implements the ode.Integrable interface.
func (m *membrane) Stop(t float64) bool {
	return m.steps >= m.maxSteps || m.err != nil
}

// Func implements the ode.Integrable interface.
func (m *membrane) Func(t float64, s []float64) []float64 {
	y := m.state
	y.Set(FieldU, s[0])
	d, err := LIF{}.Derivative(t, y)
	if err != nil {
		m.err = err
		return []float64{0}
	}
	return []float64{d.Get(FieldU)}
}

// ReferencePotential returns the membrane potential of a LIF neuron starting at s after
// duration, integrated without any threshold in the provided number of fine RK4 steps.
func ReferencePotential(s State, duration float64, steps uint64) (float64, error) {
	if duration <= 0 || steps == 0 {
		return 0, fmt.Errorf("reference over %g in %d steps: %w", duration, steps, ErrInvalidConfig)
	}
	if s.R()*s.C() == 0 {
		return 0, fmt.Errorf("LIF time constant R*C (R=%g, C=%g): %w", s.R(), s.C(), ErrDivisionByZero)
	}
	m := &membrane{state: s, u: s.U(), maxSteps: steps}
	if _, _, err := ode.NewRK4(0, duration/float64(steps), m).Solve(); err != nil {
		return 0, err
	}
	return m.u, m.err
}

// AnalyticPotential returns the closed form sub-threshold potential of a LIF neuron
// starting at s after t: U0 + R·I + (U - U0 - R·I)·exp(-t/(R·C)).
func AnalyticPotential(s State, t float64) (float64, error) {
	τ := s.R() * s.C()
	if τ == 0 {
		return 0, fmt.Errorf("LIF time constant R*C (R=%g, C=%g): %w", s.R(), s.C(), ErrDivisionByZero)
	}
	asymptote := s.U0() + s.R()*s.IExt()
	return asymptote + (s.U()-asymptote)*math.Exp(-t/τ), nil
}

// ConvergencePoint is the error of both schemes for one time step.
type ConvergencePoint struct {
	Dt         float64
	EulerError float64
	RK4Error   float64
	EulerOrder float64 // log2 of the error ratio with the previous time step, NaN for the first one
	RK4Order   float64
}

// ConvergenceStudy integrates the sub-threshold potential of a LIF neuron starting at s over
// duration with the Euler and RK4 schemes, for `levels` successive halvings of dt0, and
// returns their errors against a high resolution reference along with the observed orders.
func ConvergenceStudy(s State, duration, dt0 float64, levels int) ([]ConvergencePoint, error) {
	if levels <= 0 || dt0 <= 0 || duration < dt0 {
		return nil, fmt.Errorf("convergence over %g from dt=%g in %d levels: %w", duration, dt0, levels, ErrInvalidConfig)
	}
	finest := dt0 / math.Exp2(float64(levels-1))
	ref, err := ReferencePotential(s, duration, uint64(math.Ceil(64*duration/finest)))
	if err != nil {
		return nil, err
	}
	s.Spike = false
	points := make([]ConvergencePoint, levels)
	for k := range points {
		dt := dt0 / math.Exp2(float64(k))
		steps := int(math.Round(duration / dt))
		dt = duration / float64(steps)
		p := ConvergencePoint{Dt: dt, EulerOrder: math.NaN(), RK4Order: math.NaN()}
		for _, scheme := range []struct {
			integrator StateIntegrator
			err        *float64
		}{{EulerIntegrator, &p.EulerError}, {RK4Integrator, &p.RK4Error}} {
			y := s
			for i := 0; i < steps; i++ {
				if y, err = scheme.integrator.Step(LIF{}.Derivative, dt, float64(i)*dt, y); err != nil {
					return nil, err
				}
			}
			*scheme.err = math.Abs(y.U() - ref)
		}
		if k > 0 {
			p.EulerOrder = math.Log2(points[k-1].EulerError / p.EulerError)
			p.RK4Order = math.Log2(points[k-1].RK4Error / p.RK4Error)
		}
		points[k] = p
	}
	return points, nil
}
