package neuromorphic

import (
	"fmt"
	"strings"
)

// TimeSeries records the states of one neuron over a simulation, one column per field.
// Its capacity is fixed at creation and every index may only be written once.
type TimeSeries struct {
	fields  [numFields][]float64
	spikes  []bool
	times   []float64
	written []bool
	length  int
}

// NewTimeSeries returns an empty time series able to hold steps records.
func NewTimeSeries(steps int) *TimeSeries {
	if steps < 0 {
		steps = 0
	}
	ts := &TimeSeries{
		spikes:  make([]bool, steps),
		times:   make([]float64, steps),
		written: make([]bool, steps),
	}
	for f := range ts.fields {
		ts.fields[f] = make([]float64, steps)
	}
	return ts
}

// Set records the state s at time t at index i.
func (ts *TimeSeries) Set(i int, s State, t float64) error {
	if err := ts.writable(i); err != nil {
		return err
	}
	for f := range ts.fields {
		ts.fields[f][i] = s.v[f]
	}
	ts.spikes[i] = s.Spike
	ts.times[i] = t
	ts.written[i] = true
	if i >= ts.length {
		ts.length = i + 1
	}
	return nil
}

func (ts *TimeSeries) writable(i int) error {
	if i < 0 || i >= len(ts.times) {
		return fmt.Errorf("index %d of a series of %d: %w", i, len(ts.times), ErrIndexOutOfRange)
	}
	if ts.written[i] {
		return fmt.Errorf("index %d already recorded: %w", i, ErrIndexOutOfRange)
	}
	return nil
}

// Len returns the number of recorded entries, i.e. one past the highest written index.
func (ts *TimeSeries) Len() int {
	return ts.length
}

// Cap returns the number of entries this series can hold.
func (ts *TimeSeries) Cap() int {
	return len(ts.times)
}

// At returns the state and time recorded at index i.
func (ts *TimeSeries) At(i int) (State, float64, error) {
	if i < 0 || i >= ts.length {
		return State{}, 0, fmt.Errorf("index %d of a series of length %d: %w", i, ts.length, ErrIndexOutOfRange)
	}
	var s State
	for f := range ts.fields {
		s.v[f] = ts.fields[f][i]
	}
	s.Spike = ts.spikes[i]
	return s, ts.times[i], nil
}

// Values returns a copy of the recorded values of the field f.
func (ts *TimeSeries) Values(f Field) []float64 {
	return append([]float64(nil), ts.fields[f][:ts.length]...)
}

// ValuesByName returns the recorded values of the named field. Besides the state fields,
// "t" returns the times and "spike" returns 1 where the neuron spiked and 0 elsewhere.
func (ts *TimeSeries) ValuesByName(name string) ([]float64, error) {
	switch strings.ToLower(name) {
	case "t":
		return ts.Times(), nil
	case "spike":
		vals := make([]float64, ts.length)
		for i, spiked := range ts.spikes[:ts.length] {
			if spiked {
				vals[i] = 1
			}
		}
		return vals, nil
	}
	f, err := ParseField(name)
	if err != nil {
		return nil, err
	}
	return ts.Values(f), nil
}

// Spikes returns a copy of the recorded spike flags.
func (ts *TimeSeries) Spikes() []bool {
	return append([]bool(nil), ts.spikes[:ts.length]...)
}

// Times returns a copy of the recorded times.
func (ts *TimeSeries) Times() []float64 {
	return append([]float64(nil), ts.times[:ts.length]...)
}

// SpikeTimes returns the times at which the neuron spiked.
func (ts *TimeSeries) SpikeTimes() []float64 {
	var times []float64
	for i, spiked := range ts.spikes[:ts.length] {
		if spiked {
			times = append(times, ts.times[i])
		}
	}
	return times
}

// SpikeCount returns the number of recorded spikes.
func (ts *TimeSeries) SpikeCount() (count int) {
	for _, spiked := range ts.spikes[:ts.length] {
		if spiked {
			count++
		}
	}
	return
}
