package neuromorphic

import (
	"fmt"
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/google/uuid"
)

/* Drives the simulation of a set of neurons over a fixed number of time steps. */

// InputFunc returns the external current of every neuron at time t.
type InputFunc func(t float64) []float64

// Simulation advances a set of neurons, either independent or coupled in a Network,
// records their states and publishes lifecycle events to its subscribers.
// The neurons provided at creation are templates: every Init and Reset starts from
// a fresh copy of them. A Simulation is not safe for concurrent use, and subscribers
// may not call Init, Run, Update or Reset while they are notified: these return ErrBusy.
type Simulation struct {
	publisher
	name       string
	templates  []*Neuron
	network    *Network // coupling template, nil for independent neurons
	strategies []UpdateStrategy
	names      []string

	neurons     []*Neuron
	net         *Network
	series      []*TimeSeries
	input       InputFunc
	dt          float64
	steps       int
	iteration   int
	initialized bool
	busy        bool
	runID       uuid.UUID
	logger      kitlog.Logger
}

// NewSimulation returns a simulation of independent neurons. Nil strategies update every
// neuron with the Euler scheme, otherwise there must be one strategy per neuron.
func NewSimulation(neurons []*Neuron, strategies []UpdateStrategy) (*Simulation, error) {
	if len(neurons) == 0 {
		return nil, fmt.Errorf("simulation without any neuron: %w", ErrDimensionMismatch)
	}
	strats, err := uniformStrategies(len(neurons), strategies)
	if err != nil {
		return nil, err
	}
	templates := make([]*Neuron, len(neurons))
	for i, n := range neurons {
		if n == nil {
			return nil, fmt.Errorf("neuron %d is nil: %w", i, ErrInvalidConfig)
		}
		templates[i] = n.Clone()
	}
	return newSimulation(templates, nil, strats), nil
}

// NewNetworkSimulation returns a simulation of the provided network, which is used as a template.
func NewNetworkSimulation(net *Network) *Simulation {
	if net == nil {
		panic("cannot simulate a nil network")
	}
	template := net.Clone()
	template.Reset()
	return newSimulation(template.neurons, template, template.strategies)
}

func newSimulation(templates []*Neuron, net *Network, strategies []UpdateStrategy) *Simulation {
	s := &Simulation{templates: templates, network: net, strategies: strategies, logger: kitlog.NewNopLogger()}
	s.names = make([]string, len(templates))
	for i := range s.names {
		s.names[i] = fmt.Sprintf("N%d - %s", i+1, strategies[i])
	}
	return s
}

// SetLogger sets the logger of this simulation.
func (s *Simulation) SetLogger(logger kitlog.Logger) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	s.logger = logger
}

// SetName sets the name of the simulation, used in logs.
func (s *Simulation) SetName(name string) {
	s.name = name
}

// Name returns the name of the simulation.
func (s *Simulation) Name() string {
	return s.name
}

// SetNames sets the display name of every neuron.
func (s *Simulation) SetNames(names []string) error {
	if len(names) != len(s.templates) {
		return fmt.Errorf("%d names for %d neurons: %w", len(names), len(s.templates), ErrDimensionMismatch)
	}
	copy(s.names, names)
	return nil
}

// Names returns the display name of every neuron.
func (s *Simulation) Names() []string {
	return append([]string(nil), s.names...)
}

// Init prepares a run of steps updates of dt, with the currents provided by input.
// It starts from fresh copies of the template neurons and publishes EventInit.
func (s *Simulation) Init(steps int, dt float64, input InputFunc) error {
	if err := s.enter("init"); err != nil {
		return err
	}
	defer s.leave()
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", steps, ErrInvalidConfig)
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("time step must be positive and finite, got %g: %w", dt, ErrInvalidConfig)
	}
	if input == nil {
		return fmt.Errorf("nil input function: %w", ErrInvalidConfig)
	}
	s.steps = steps
	s.dt = dt
	s.input = input
	s.setInitialValues()
	s.initialized = true
	s.log().Log("level", "info", "subsys", "sim", "status", "initialized", "steps", steps, "dt", dt, "neurons", len(s.neurons), "coupled", s.network != nil)
	s.notify(EventInit, s, s.Series())
	return nil
}

func (s *Simulation) setInitialValues() {
	if s.network != nil {
		s.net = s.network.Clone()
		s.neurons = s.net.neurons
	} else {
		s.neurons = make([]*Neuron, len(s.templates))
		for i, n := range s.templates {
			s.neurons[i] = n.Clone()
		}
	}
	s.series = make([]*TimeSeries, len(s.neurons))
	for i := range s.series {
		s.series[i] = NewTimeSeries(s.steps)
	}
	s.iteration = 0
	s.runID = uuid.New()
}

// enter marks the simulation as busy until leave is called, and fails if it already was.
func (s *Simulation) enter(op string) error {
	if s.busy {
		s.log().Log("level", "warning", "subsys", "sim", "message", op+" refused", "iteration", s.iteration)
		return fmt.Errorf("%s during another operation: %w", op, ErrBusy)
	}
	s.busy = true
	return nil
}

func (s *Simulation) leave() {
	s.busy = false
}

func (s *Simulation) log() kitlog.Logger {
	return kitlog.With(s.logger, "sim", s.name, "run", s.runID.String())
}

// Run performs all the steps of the simulation, publishing EventRunStart before them and EventRunEnd after.
func (s *Simulation) Run() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if err := s.enter("run"); err != nil {
		return err
	}
	defer s.leave()
	s.log().Log("level", "info", "subsys", "sim", "status", "started")
	s.notify(EventRunStart, s, nil)
	start := time.Now()
	for i := 0; i < s.steps; i++ {
		if err := s.update(); err != nil {
			s.log().Log("level", "critical", "subsys", "sim", "status", "aborted", "iteration", s.iteration, "err", err)
			return err
		}
	}
	spikes := 0
	for _, ts := range s.series {
		spikes += ts.SpikeCount()
	}
	s.log().Log("level", "notice", "subsys", "sim", "status", "finished", "duration", time.Since(start).String(), "spikes", spikes)
	s.notify(EventRunEnd, s, nil)
	return nil
}

// Update performs a single tick: every neuron is advanced with the currents of the
// input at t = iteration*dt, its state is recorded and EventSpike is published for
// each spiking neuron, followed by EventUpdate. A failing tick commits nothing.
func (s *Simulation) Update() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if err := s.enter("update"); err != nil {
		return err
	}
	defer s.leave()
	return s.update()
}

func (s *Simulation) update() error {
	if s.iteration >= s.steps {
		s.log().Log("level", "warning", "subsys", "sim", "message", "update refused", "iteration", s.iteration, "steps", s.steps)
		return fmt.Errorf("update after %d steps: %w", s.steps, ErrSimulationEnded)
	}
	t := float64(s.iteration) * s.dt
	inputs := s.input(t)
	if len(inputs) != len(s.neurons) {
		return &TickError{Iteration: s.iteration, Time: t, Err: fmt.Errorf("%d input currents for %d neurons: %w", len(inputs), len(s.neurons), ErrDimensionMismatch)}
	}
	for i, ts := range s.series {
		if err := ts.writable(s.iteration); err != nil {
			return &TickError{Iteration: s.iteration, Time: t, Err: fmt.Errorf("neuron %d: %w", i, err)}
		}
	}

	var spikes []bool
	if s.net != nil {
		next, psp, err := s.net.advance(s.dt, inputs)
		if err != nil {
			return &TickError{Iteration: s.iteration, Time: t, Err: err}
		}
		spikes = s.net.commit(s.dt, next, psp)
	} else {
		next := make([]State, len(s.neurons))
		for i, n := range s.neurons {
			state, err := s.strategies[i].Next(n, s.dt, inputs[i], 0)
			if err != nil {
				return &TickError{Iteration: s.iteration, Time: t, Err: fmt.Errorf("neuron %d: %w", i, err)}
			}
			next[i] = state
		}
		spikes = make([]bool, len(s.neurons))
		for i, n := range s.neurons {
			spikes[i] = n.Commit(next[i])
		}
	}

	for i, n := range s.neurons {
		state := n.State()
		// Cannot fail: every series was checked before committing.
		s.series[i].Set(s.iteration, state, t)
		if spikes[i] {
			s.notify(EventSpike, s, SpikeEvent{Neuron: i, Iteration: s.iteration, Time: t, State: state})
		}
	}
	s.notify(EventUpdate, s, nil)
	s.iteration++
	return nil
}

// Reset restores the template neurons, clears the recorded series and rewinds to the first step.
func (s *Simulation) Reset() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if err := s.enter("reset"); err != nil {
		return err
	}
	defer s.leave()
	s.setInitialValues()
	s.log().Log("level", "info", "subsys", "sim", "status", "reset")
	s.notify(EventReset, s, nil)
	return nil
}

// Series returns the time series of every neuron.
func (s *Simulation) Series() []*TimeSeries {
	return append([]*TimeSeries(nil), s.series...)
}

// Iteration returns the index of the next tick.
func (s *Simulation) Iteration() int {
	return s.iteration
}

// Steps returns the number of ticks of a run.
func (s *Simulation) Steps() int {
	return s.steps
}

// Dt returns the time step.
func (s *Simulation) Dt() float64 {
	return s.dt
}

// Ended returns whether all the steps were performed.
func (s *Simulation) Ended() bool {
	return s.initialized && s.iteration >= s.steps
}

// Neurons returns a snapshot of the current state of every neuron.
// Before Init, these are the states of the templates.
func (s *Simulation) Neurons() []State {
	src := s.neurons
	if src == nil {
		src = s.templates
	}
	states := make([]State, len(src))
	for i, n := range src {
		states[i] = n.State()
	}
	return states
}

// Size returns the number of neurons.
func (s *Simulation) Size() int {
	return len(s.templates)
}

// Strategies returns the update strategy of every neuron.
func (s *Simulation) Strategies() []UpdateStrategy {
	return append([]UpdateStrategy(nil), s.strategies...)
}

// Network returns the network of the current run, or nil for independent neurons.
func (s *Simulation) Network() *Network {
	return s.net
}

// RunID returns the identifier of the current run, renewed by Init and Reset.
func (s *Simulation) RunID() uuid.UUID {
	return s.runID
}
