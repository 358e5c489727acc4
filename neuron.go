package neuromorphic

import "fmt"

// Model defines the dynamics of a neuron.
type Model interface {
	Derivative(t float64, y State) (Derivative, error)
	String() string
}

// LIF is the Leaky-Integrate-and-Fire model: dU/dt = (R*I_ext - (U - U0)) / (R*C).
// Only U evolves, every other field has a zero rate of change.
type LIF struct{}

// Derivative implements the Model interface.
func (LIF) Derivative(t float64, y State) (Derivative, error) {
	τ := y.R() * y.C()
	if τ == 0 {
		return Derivative{}, fmt.Errorf("LIF time constant R*C (R=%g, C=%g): %w", y.R(), y.C(), ErrDivisionByZero)
	}
	var d Derivative
	d.Set(FieldU, (y.R()*y.IExt()-(y.U()-y.U0()))/τ)
	return d, nil
}

func (LIF) String() string {
	return "LIF"
}

// Neuron holds the current state of a neuron along with its initial state.
type Neuron struct {
	model   Model
	state   State
	initial State
}

// NewNeuron returns a neuron of the provided model starting at init.
func NewNeuron(model Model, init State) *Neuron {
	if model == nil {
		panic("neuron model may not be nil")
	}
	init.Spike = false
	return &Neuron{model: model, state: init, initial: init}
}

// NewLIF returns a LIF neuron starting at init.
func NewLIF(init State) *Neuron {
	return NewNeuron(LIF{}, init)
}

// Advance computes the state which follows an update of dt with the provided
// external current and post-synaptic potential, without modifying the neuron.
// The state is integrated, then the PSP is added to U, and finally the neuron
// spikes and resets to U0 if U reached the threshold.
func (n *Neuron) Advance(dt, current, psp float64, integrator StateIntegrator) (State, error) {
	y0 := n.state
	y0.Set(FieldIExt, current)
	y0.Spike = false
	y1, err := integrator.Step(n.model.Derivative, dt, 0, y0)
	if err != nil {
		return n.state, err
	}
	y1.Set(FieldU, y1.U()+psp)
	if y1.U() >= y1.Theta() {
		y1.Set(FieldU, y1.U0())
		y1.Spike = true
	}
	return y1, nil
}

// Commit sets the state of the neuron and returns whether it spiked.
func (n *Neuron) Commit(s State) bool {
	n.state = s
	return s.Spike
}

func (n *Neuron) update(dt, current, psp float64, integrator StateIntegrator) (bool, error) {
	next, err := n.Advance(dt, current, psp, integrator)
	if err != nil {
		return false, err
	}
	return n.Commit(next), nil
}

// UpdateEuler updates the neuron with the Euler scheme and returns whether it spiked.
// The neuron is left untouched on error.
func (n *Neuron) UpdateEuler(dt, current, psp float64) (bool, error) {
	return n.update(dt, current, psp, EulerIntegrator)
}

// UpdateRK4 updates the neuron with the RK4 scheme and returns whether it spiked.
// The neuron is left untouched on error.
func (n *Neuron) UpdateRK4(dt, current, psp float64) (bool, error) {
	return n.update(dt, current, psp, RK4Integrator)
}

// Reset restores the initial state.
func (n *Neuron) Reset() {
	n.state = n.initial
}

// State returns a snapshot of the current state.
func (n *Neuron) State() State {
	return n.state
}

// Initial returns the state the neuron resets to.
func (n *Neuron) Initial() State {
	return n.initial
}

// Model returns the dynamics model of this neuron.
func (n *Neuron) Model() Model {
	return n.model
}

// Clone returns an independent copy of this neuron. Models are stateless and are shared.
func (n *Neuron) Clone() *Neuron {
	c := *n
	return &c
}

func (n *Neuron) String() string {
	return fmt.Sprintf("%s{%s}", n.model, n.state)
}
