package neuromorphic

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// Network is a set of neurons coupled by a weight matrix: weights[i][j] is the
// synaptic weight from neuron i (pre-synaptic) to neuron j (post-synaptic).
// Each tick delivers psp = Wᵀ·kernel(sinceSpike), using the spike timers as they
// were before the tick, so a spike influences its targets on the following tick.
type Network struct {
	neurons    []*Neuron
	strategies []UpdateStrategy
	weights    *mat64.Dense
	kernel     Kernel
	sinceSpike []float64
	psp        []float64
}

// NewNetwork returns a network owning the provided neurons.
// A nil weights matrix leaves the neurons unconnected, a nil kernel is Dirac,
// and nil strategies update every neuron with the Euler scheme.
func NewNetwork(neurons []*Neuron, weights [][]float64, kernel Kernel, strategies []UpdateStrategy) (*Network, error) {
	n := len(neurons)
	if n == 0 {
		return nil, fmt.Errorf("network without any neuron: %w", ErrDimensionMismatch)
	}
	for i, nrn := range neurons {
		if nrn == nil {
			return nil, fmt.Errorf("neuron %d is nil: %w", i, ErrInvalidConfig)
		}
	}
	W := mat64.NewDense(n, n, nil)
	if weights != nil {
		if len(weights) != n {
			return nil, fmt.Errorf("weight matrix has %d rows for %d neurons: %w", len(weights), n, ErrDimensionMismatch)
		}
		for i, row := range weights {
			if len(row) != n {
				return nil, fmt.Errorf("weight row %d has %d columns for %d neurons: %w", i, len(row), n, ErrDimensionMismatch)
			}
			for j, w := range row {
				W.Set(i, j, w)
			}
		}
	}
	strats, err := uniformStrategies(n, strategies)
	if err != nil {
		return nil, err
	}
	if kernel == nil {
		kernel = Dirac
	}
	net := &Network{neurons: neurons, strategies: strats, weights: W, kernel: kernel}
	net.sinceSpike = make([]float64, n)
	net.psp = make([]float64, n)
	net.resetTimers()
	return net, nil
}

func (net *Network) resetTimers() {
	for i := range net.sinceSpike {
		net.sinceSpike[i] = neverSpiked
		net.psp[i] = 0
	}
}

// Update advances every neuron by dt with the provided external currents and
// returns which neurons spiked. Nothing is modified if an error is returned.
func (net *Network) Update(dt float64, inputs []float64) ([]bool, error) {
	next, psp, err := net.advance(dt, inputs)
	if err != nil {
		return nil, err
	}
	return net.commit(dt, next, psp), nil
}

// advance computes the next state of every neuron and the PSP delivered to each of them.
func (net *Network) advance(dt float64, inputs []float64) ([]State, []float64, error) {
	n := len(net.neurons)
	if len(inputs) != n {
		return nil, nil, fmt.Errorf("%d input currents for %d neurons: %w", len(inputs), n, ErrDimensionMismatch)
	}
	alphas := mat64.NewVector(n, nil)
	for i, since := range net.sinceSpike {
		alphas.SetVec(i, net.kernel(since))
	}
	pspVec := mat64.NewVector(n, nil)
	pspVec.MulVec(net.weights.T(), alphas)

	psp := make([]float64, n)
	next := make([]State, n)
	for j, nrn := range net.neurons {
		psp[j] = pspVec.At(j, 0)
		s, err := net.strategies[j].Next(nrn, dt, inputs[j], psp[j])
		if err != nil {
			return nil, nil, fmt.Errorf("neuron %d: %w", j, err)
		}
		next[j] = s
	}
	return next, psp, nil
}

// commit sets the states computed by advance and updates the spike timers.
func (net *Network) commit(dt float64, next []State, psp []float64) []bool {
	spikes := make([]bool, len(net.neurons))
	for i, nrn := range net.neurons {
		spikes[i] = nrn.Commit(next[i])
		if spikes[i] {
			net.sinceSpike[i] = 0
		} else {
			// NaN stays NaN for neurons which never spiked.
			net.sinceSpike[i] += dt
		}
	}
	copy(net.psp, psp)
	return spikes
}

// Size returns the number of neurons.
func (net *Network) Size() int {
	return len(net.neurons)
}

// Neurons returns the neurons of the network. They are owned by the network.
func (net *Network) Neurons() []*Neuron {
	return append([]*Neuron(nil), net.neurons...)
}

// Strategies returns the update strategy of each neuron.
func (net *Network) Strategies() []UpdateStrategy {
	return append([]UpdateStrategy(nil), net.strategies...)
}

// Weights returns a copy of the weight matrix.
func (net *Network) Weights() *mat64.Dense {
	return mat64.DenseCopyOf(net.weights)
}

// PSP returns the post-synaptic potentials delivered on the last tick.
func (net *Network) PSP() []float64 {
	return append([]float64(nil), net.psp...)
}

// SinceSpike returns the time since the last spike of each neuron (NaN if it never spiked).
func (net *Network) SinceSpike() []float64 {
	return append([]float64(nil), net.sinceSpike...)
}

// Reset resets every neuron and forgets all spikes.
func (net *Network) Reset() {
	for _, nrn := range net.neurons {
		nrn.Reset()
	}
	net.resetTimers()
}

// Clone returns a deep copy of the network, sharing no mutable state with it.
func (net *Network) Clone() *Network {
	c := &Network{
		neurons:    make([]*Neuron, len(net.neurons)),
		strategies: append([]UpdateStrategy(nil), net.strategies...),
		weights:    mat64.DenseCopyOf(net.weights),
		kernel:     net.kernel,
		sinceSpike: append([]float64(nil), net.sinceSpike...),
		psp:        append([]float64(nil), net.psp...),
	}
	for i, nrn := range net.neurons {
		c.neurons[i] = nrn.Clone()
	}
	return c
}
