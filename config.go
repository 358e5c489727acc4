package neuromorphic

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// DefaultBumpVariance is the variance of the Gaussian bump input.
	DefaultBumpVariance = 28.0
	// DefaultBumpPeriod is the time the Gaussian bump stays on a centre.
	DefaultBumpPeriod = 10.0
)

// NeuronConfig holds the initial state parameters and the update strategy of a neuron.
// Params are keyed by field name (U0, U, theta, R, C, I_ext).
type NeuronConfig struct {
	Params   map[string]float64 `yaml:"params,omitempty"`
	Strategy string             `yaml:"strategy,omitempty"`
}

// NetworkConfig holds the coupling of the neurons.
type NetworkConfig struct {
	Size      int         `yaml:"size"`
	Weights   [][]float64 `yaml:"weights,omitempty"`
	Kernel    string      `yaml:"kernel"`
	KernelTau float64     `yaml:"kernel_tau,omitempty"`
}

// InputConfig defines the external currents: constant, bump or noisy.
type InputConfig struct {
	Kind     string    `yaml:"kind"`
	Currents []float64 `yaml:"currents,omitempty"`
	Variance float64   `yaml:"variance,omitempty"`
	Period   float64   `yaml:"period,omitempty"`
	Sigma    float64   `yaml:"sigma,omitempty"`
	Seed     int64     `yaml:"seed,omitempty"`
}

// Scenario is a complete simulation setup, usually read from a TOML file.
type Scenario struct {
	Name     string         `yaml:"name"`
	Steps    int            `yaml:"steps"`
	Dt       float64        `yaml:"dt"`
	Defaults NeuronConfig   `yaml:"neuron"`
	Neurons  []NeuronConfig `yaml:"neurons,omitempty"`
	Network  *NetworkConfig `yaml:"network,omitempty"`
	Input    InputConfig    `yaml:"input"`
}

// LoadScenario reads the scenario file at path. Its format follows its extension.
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return scenarioFrom(v)
}

// ReadScenario reads a scenario of the provided format (toml, yaml, json) from r.
func ReadScenario(r io.Reader, format string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("reading %s scenario: %w", format, err)
	}
	return scenarioFrom(v)
}

func scenarioFrom(v *viper.Viper) (*Scenario, error) {
	v.SetDefault("simulation.name", "simulation")
	v.SetDefault("input.kind", "constant")
	v.SetDefault("input.variance", DefaultBumpVariance)
	v.SetDefault("input.period", DefaultBumpPeriod)

	sc := &Scenario{
		Name:  v.GetString("simulation.name"),
		Steps: v.GetInt("simulation.steps"),
		Dt:    v.GetFloat64("simulation.dt"),
	}
	var err error
	if sc.Defaults, err = neuronConfigFrom(v.GetStringMap("neuron")); err != nil {
		return nil, fmt.Errorf("[neuron]: %w", err)
	}
	if v.IsSet("neurons") {
		entries, err := cast.ToSliceE(v.Get("neurons"))
		if err != nil {
			return nil, fmt.Errorf("[[neurons]]: %s: %w", err, ErrInvalidConfig)
		}
		for i, entry := range entries {
			raw, err := cast.ToStringMapE(entry)
			if err != nil {
				return nil, fmt.Errorf("[[neurons]] #%d: %s: %w", i, err, ErrInvalidConfig)
			}
			nc, err := neuronConfigFrom(raw)
			if err != nil {
				return nil, fmt.Errorf("[[neurons]] #%d: %w", i, err)
			}
			sc.Neurons = append(sc.Neurons, nc)
		}
	}
	if v.IsSet("network") {
		sc.Network = &NetworkConfig{
			Size:      v.GetInt("network.size"),
			Kernel:    v.GetString("network.kernel"),
			KernelTau: v.GetFloat64("network.kernel_tau"),
		}
		if v.IsSet("network.weights") {
			if err := v.UnmarshalKey("network.weights", &sc.Network.Weights); err != nil {
				return nil, fmt.Errorf("[network] weights: %s: %w", err, ErrInvalidConfig)
			}
		}
	}
	sc.Input = InputConfig{
		Kind:     strings.ToLower(v.GetString("input.kind")),
		Variance: v.GetFloat64("input.variance"),
		Period:   v.GetFloat64("input.period"),
		Sigma:    v.GetFloat64("input.sigma"),
		Seed:     v.GetInt64("input.seed"),
	}
	if v.IsSet("input.currents") {
		if err := v.UnmarshalKey("input.currents", &sc.Input.Currents); err != nil {
			return nil, fmt.Errorf("[input] currents: %s: %w", err, ErrInvalidConfig)
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// neuronConfigFrom converts a raw table into a NeuronConfig, rejecting unknown fields.
func neuronConfigFrom(raw map[string]interface{}) (NeuronConfig, error) {
	nc := NeuronConfig{Params: make(map[string]float64)}
	for key, val := range raw {
		if strings.EqualFold(key, "strategy") {
			nc.Strategy = strings.ToLower(cast.ToString(val))
			continue
		}
		f, err := ParseField(key)
		if err != nil {
			return nc, err
		}
		fl, err := cast.ToFloat64E(val)
		if err != nil {
			return nc, fmt.Errorf("%s: %s: %w", key, err, ErrInvalidConfig)
		}
		nc.Params[f.String()] = fl
	}
	return nc, nil
}

// Size returns the number of neurons of the scenario: the network size if set,
// otherwise the number of neuron overrides, otherwise the number of constant currents.
func (sc *Scenario) Size() int {
	switch {
	case sc.Network != nil && sc.Network.Size > 0:
		return sc.Network.Size
	case len(sc.Neurons) > 0:
		return len(sc.Neurons)
	case len(sc.Input.Currents) > 0:
		return len(sc.Input.Currents)
	}
	return 1
}

// Validate checks the consistency of the scenario.
func (sc *Scenario) Validate() error {
	if sc.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", sc.Steps, ErrInvalidConfig)
	}
	if sc.Dt <= 0 || math.IsNaN(sc.Dt) || math.IsInf(sc.Dt, 0) {
		return fmt.Errorf("dt must be positive and finite, got %g: %w", sc.Dt, ErrInvalidConfig)
	}
	n := sc.Size()
	if len(sc.Neurons) > 0 && len(sc.Neurons) != n {
		return fmt.Errorf("%d neuron overrides for %d neurons: %w", len(sc.Neurons), n, ErrDimensionMismatch)
	}
	for _, nc := range append([]NeuronConfig{sc.Defaults}, sc.Neurons...) {
		for name := range nc.Params {
			if _, err := ParseField(name); err != nil {
				return err
			}
		}
		if _, err := ParseStrategy(nc.Strategy); err != nil {
			return err
		}
	}
	if sc.Network != nil {
		if sc.Network.Weights != nil {
			if len(sc.Network.Weights) != n {
				return fmt.Errorf("%d weight rows for %d neurons: %w", len(sc.Network.Weights), n, ErrDimensionMismatch)
			}
			for i, row := range sc.Network.Weights {
				if len(row) != n {
					return fmt.Errorf("weight row %d has %d columns for %d neurons: %w", i, len(row), n, ErrDimensionMismatch)
				}
			}
		}
		if _, err := ParseKernel(sc.Network.Kernel, sc.Network.KernelTau); err != nil {
			return err
		}
	}
	switch sc.Input.Kind {
	case "constant", "noisy", "":
		if len(sc.Input.Currents) > 0 && len(sc.Input.Currents) != n {
			return fmt.Errorf("%d currents for %d neurons: %w", len(sc.Input.Currents), n, ErrDimensionMismatch)
		}
		if sc.Input.Kind == "noisy" && !(sc.Input.Sigma > 0) {
			return fmt.Errorf("noisy input requires a positive sigma, got %g: %w", sc.Input.Sigma, ErrInvalidConfig)
		}
	case "bump":
		if !(sc.Input.Variance > 0) || !(sc.Input.Period > 0) {
			return fmt.Errorf("bump input requires a positive variance and period: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown input kind %q: %w", sc.Input.Kind, ErrInvalidConfig)
	}
	return nil
}

// InitialStates returns the initial state of every neuron: the LIF defaults, overridden
// by the [neuron] parameters then by the per-neuron ones. U starts at U0 unless set.
func (sc *Scenario) InitialStates() ([]State, error) {
	states := make([]State, sc.Size())
	for i := range states {
		st := DefaultLIFState()
		_, uSet := sc.Defaults.Params[FieldU.String()]
		if err := applyParams(&st, sc.Defaults.Params); err != nil {
			return nil, err
		}
		if i < len(sc.Neurons) {
			if err := applyParams(&st, sc.Neurons[i].Params); err != nil {
				return nil, err
			}
			if _, set := sc.Neurons[i].Params[FieldU.String()]; set {
				uSet = true
			}
		}
		if !uSet {
			st.Set(FieldU, st.U0())
		}
		states[i] = st
	}
	return states, nil
}

func applyParams(st *State, params map[string]float64) error {
	for name, val := range params {
		if err := st.SetByName(name, val); err != nil {
			return err
		}
	}
	return nil
}

// Strategies returns the update strategy of every neuron.
func (sc *Scenario) Strategies() ([]UpdateStrategy, error) {
	strategies := make([]UpdateStrategy, sc.Size())
	for i := range strategies {
		name := sc.Defaults.Strategy
		if i < len(sc.Neurons) && sc.Neurons[i].Strategy != "" {
			name = sc.Neurons[i].Strategy
		}
		s, err := ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		strategies[i] = s
	}
	return strategies, nil
}

// InputFunc returns the external currents described by the scenario.
func (sc *Scenario) InputFunc() (InputFunc, error) {
	n := sc.Size()
	currents := sc.Input.Currents
	if len(currents) == 0 {
		currents = make([]float64, n)
	}
	switch sc.Input.Kind {
	case "bump":
		return GaussianBumpInput(n, sc.Input.Variance, sc.Input.Period)
	case "noisy":
		return NoisyInput(ConstantInput(currents...), sc.Input.Sigma, sc.Input.Seed)
	default:
		return ConstantInput(currents...), nil
	}
}

// Build returns the simulation described by the scenario along with its input.
// The simulation still has to be initialized with the scenario steps and dt.
func (sc *Scenario) Build() (*Simulation, InputFunc, error) {
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}
	states, err := sc.InitialStates()
	if err != nil {
		return nil, nil, err
	}
	strategies, err := sc.Strategies()
	if err != nil {
		return nil, nil, err
	}
	input, err := sc.InputFunc()
	if err != nil {
		return nil, nil, err
	}
	neurons := make([]*Neuron, len(states))
	for i, st := range states {
		neurons[i] = NewLIF(st)
	}

	var sim *Simulation
	if sc.Network != nil {
		kernel, err := ParseKernel(sc.Network.Kernel, sc.Network.KernelTau)
		if err != nil {
			return nil, nil, err
		}
		net, err := NewNetwork(neurons, sc.Network.Weights, kernel, strategies)
		if err != nil {
			return nil, nil, err
		}
		sim = NewNetworkSimulation(net)
	} else if sim, err = NewSimulation(neurons, strategies); err != nil {
		return nil, nil, err
	}
	sim.SetName(sc.Name)
	return sim, input, nil
}
