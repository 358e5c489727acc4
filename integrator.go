package neuromorphic

// VectorSpace is satisfied by values which can be summed and scaled.
type VectorSpace[T any] interface {
	Add(T) T
	Scale(k float64) T
	Divide(k float64) (T, error)
}

// Integrable is a rate of change of S which can be integrated over a time step.
type Integrable[D any, S any] interface {
	VectorSpace[D]
	Integrate(dt float64) S
}

// DerivativeFunc returns the rate of change of y at time t.
type DerivativeFunc[S, D any] func(t float64, y S) (D, error)

// Integrator advances a state by one fixed time step.
// Implementations are stateless and safe for concurrent use.
type Integrator[S VectorSpace[S], D Integrable[D, S]] interface {
	Step(f DerivativeFunc[S, D], dt, t0 float64, y0 S) (S, error)
	String() string
}

// Euler is the explicit first order Euler scheme: y1 = y0 + dt*f(t0, y0).
type Euler[S VectorSpace[S], D Integrable[D, S]] struct{}

// Step implements the Integrator interface.
func (Euler[S, D]) Step(f DerivativeFunc[S, D], dt, t0 float64, y0 S) (S, error) {
	k1, err := f(t0, y0)
	if err != nil {
		return y0, err
	}
	return y0.Add(k1.Integrate(dt)), nil
}

func (Euler[S, D]) String() string {
	return "Euler"
}

// RK4 is the classical fourth order Runge-Kutta scheme.
type RK4[S VectorSpace[S], D Integrable[D, S]] struct{}

// Step implements the Integrator interface.
func (RK4[S, D]) Step(f DerivativeFunc[S, D], dt, t0 float64, y0 S) (S, error) {
	halfStep := dt / 2
	k1, err := f(t0, y0)
	if err != nil {
		return y0, err
	}
	k2, err := f(t0+halfStep, y0.Add(k1.Integrate(halfStep)))
	if err != nil {
		return y0, err
	}
	k3, err := f(t0+halfStep, y0.Add(k2.Integrate(halfStep)))
	if err != nil {
		return y0, err
	}
	k4, err := f(t0+dt, y0.Add(k3.Integrate(dt)))
	if err != nil {
		return y0, err
	}
	slope, err := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4).Divide(6)
	if err != nil {
		return y0, err
	}
	return y0.Add(slope.Integrate(dt)), nil
}

func (RK4[S, D]) String() string {
	return "RK4"
}

// StateIntegrator integrates neuron states.
type StateIntegrator = Integrator[State, Derivative]

var (
	// EulerIntegrator integrates neuron states with the Euler scheme.
	EulerIntegrator StateIntegrator = Euler[State, Derivative]{}
	// RK4Integrator integrates neuron states with the RK4 scheme.
	RK4Integrator StateIntegrator = RK4[State, Derivative]{}
)
