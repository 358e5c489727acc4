package neuromorphic

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/stat"
)

// Summary holds spiking statistics of a recorded time series.
type Summary struct {
	Samples    int
	Spikes     int
	Rate       float64 // spikes per time unit
	FirstSpike float64 // NaN if the neuron never spiked
	MeanISI    float64 // mean inter-spike interval, NaN with less than two spikes
	MeanU      float64
	StdDevU    float64
	MaxU       float64
}

func (s Summary) String() string {
	return fmt.Sprintf("samples=%d spikes=%d rate=%.4f first=%g ISI=%g U(μ=%.6f σ=%.6f max=%.6f)", s.Samples, s.Spikes, s.Rate, s.FirstSpike, s.MeanISI, s.MeanU, s.StdDevU, s.MaxU)
}

// Summarize returns the statistics of a series recorded with a time step dt.
func Summarize(ts *TimeSeries, dt float64) Summary {
	sum := Summary{Samples: ts.Len(), FirstSpike: math.NaN(), MeanISI: math.NaN(), MeanU: math.NaN(), StdDevU: math.NaN(), MaxU: math.NaN()}
	if sum.Samples == 0 {
		return sum
	}
	spikeTimes := ts.SpikeTimes()
	sum.Spikes = len(spikeTimes)
	if duration := float64(sum.Samples) * dt; duration > 0 {
		sum.Rate = float64(sum.Spikes) / duration
	}
	if sum.Spikes > 0 {
		sum.FirstSpike = spikeTimes[0]
	}
	if sum.Spikes > 1 {
		isi := make([]float64, sum.Spikes-1)
		for i := range isi {
			isi[i] = spikeTimes[i+1] - spikeTimes[i]
		}
		sum.MeanISI = floats.Sum(isi) / float64(len(isi))
	}
	u := ts.Values(FieldU)
	sum.MeanU = stat.Mean(u, nil)
	if len(u) > 1 {
		sum.StdDevU = stat.StdDev(u, nil)
	} else {
		sum.StdDevU = 0
	}
	sum.MaxU = floats.Max(u)
	return sum
}
