package neuromorphic

import (
	"fmt"
	"strings"

	"github.com/gonum/floats"
)

// Field designates one of the physical quantities of a neuron state.
type Field uint8

const (
	// FieldU0 is the resting potential.
	FieldU0 Field = iota
	// FieldU is the membrane potential.
	FieldU
	// FieldTheta is the firing threshold.
	FieldTheta
	// FieldR is the membrane resistance.
	FieldR
	// FieldC is the membrane capacitance.
	FieldC
	// FieldIExt is the external input current.
	FieldIExt
	numFields
)

var fieldNames = [numFields]string{"U0", "U", "theta", "R", "C", "I_ext"}

func (f Field) String() string {
	if f >= numFields {
		panic(fmt.Errorf("cannot stringify field %d", f))
	}
	return fieldNames[f]
}

// Fields returns all the state fields in their canonical order.
func Fields() []Field {
	fs := make([]Field, numFields)
	for i := range fs {
		fs[i] = Field(i)
	}
	return fs
}

// ParseField returns the field with the provided name. The lookup is case insensitive
// since configuration loaders lowercase their keys.
func ParseField(name string) (Field, error) {
	for i, fn := range fieldNames {
		if strings.EqualFold(fn, name) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownField)
}

// State is the instantaneous state of a neuron. It is a value type: copies never share storage.
// Any arithmetic result has Spike cleared.
type State struct {
	v     [numFields]float64
	Spike bool
}

// NewState returns a new non spiking state.
func NewState(U0, U, theta, R, C, IExt float64) State {
	return State{v: [numFields]float64{U0, U, theta, R, C, IExt}}
}

// DefaultLIFState returns the resting state of a LIF neuron with a 0.1 threshold and unit R and C.
func DefaultLIFState() State {
	return NewState(0, 0, 0.1, 1, 1, 0)
}

// U0 returns the resting potential.
func (s State) U0() float64 { return s.v[FieldU0] }

// U returns the membrane potential.
func (s State) U() float64 { return s.v[FieldU] }

// Theta returns the firing threshold.
func (s State) Theta() float64 { return s.v[FieldTheta] }

// R returns the membrane resistance.
func (s State) R() float64 { return s.v[FieldR] }

// C returns the membrane capacitance.
func (s State) C() float64 { return s.v[FieldC] }

// IExt returns the external current.
func (s State) IExt() float64 { return s.v[FieldIExt] }

// Get returns the value of the provided field.
func (s State) Get(f Field) float64 {
	return s.v[f]
}

// Set sets the value of the provided field.
func (s *State) Set(f Field, val float64) {
	s.v[f] = val
}

// GetByName returns the value of the named field.
func (s State) GetByName(name string) (float64, error) {
	f, err := ParseField(name)
	if err != nil {
		return 0, err
	}
	return s.v[f], nil
}

// SetByName sets the value of the named field.
func (s *State) SetByName(name string, val float64) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	s.v[f] = val
	return nil
}

// Add returns the field-wise sum of both states.
func (s State) Add(o State) State {
	var r State
	for i := range r.v {
		r.v[i] = s.v[i] + o.v[i]
	}
	return r
}

// Scale returns the state with every field multiplied by k.
func (s State) Scale(k float64) State {
	var r State
	for i := range r.v {
		r.v[i] = s.v[i] * k
	}
	return r
}

// Divide returns the state with every field divided by k.
func (s State) Divide(k float64) (State, error) {
	if k == 0 {
		return State{}, fmt.Errorf("state divided by zero: %w", ErrDivisionByZero)
	}
	var r State
	for i := range r.v {
		r.v[i] = s.v[i] / k
	}
	return r, nil
}

// Copy returns an independent copy of this state.
func (s State) Copy() State {
	return s
}

// Equals returns whether both states are equal within the provided absolute tolerance,
// and if not, an error stating which field differs.
func (s State) Equals(o State, tol float64) (bool, error) {
	if s.Spike != o.Spike {
		return false, fmt.Errorf("spike flag differs (%t != %t)", s.Spike, o.Spike)
	}
	for i := range s.v {
		if s.v[i] != o.v[i] && !floats.EqualWithinAbs(s.v[i], o.v[i], tol) {
			return false, fmt.Errorf("%s invalid (%g != %g)", Field(i), s.v[i], o.v[i])
		}
	}
	return true, nil
}

func (s State) String() string {
	var b strings.Builder
	for i, val := range s.v {
		fmt.Fprintf(&b, "%s=%g ", Field(i), val)
	}
	fmt.Fprintf(&b, "spike=%t", s.Spike)
	return b.String()
}

// Derivative is the rate of change of a State, with the same fields.
type Derivative struct {
	v [numFields]float64
}

// Get returns the rate of change of the provided field.
func (d Derivative) Get(f Field) float64 {
	return d.v[f]
}

// Set sets the rate of change of the provided field.
func (d *Derivative) Set(f Field, val float64) {
	d.v[f] = val
}

// GetByName returns the rate of change of the named field.
func (d Derivative) GetByName(name string) (float64, error) {
	f, err := ParseField(name)
	if err != nil {
		return 0, err
	}
	return d.v[f], nil
}

// SetByName sets the rate of change of the named field.
func (d *Derivative) SetByName(name string, val float64) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	d.v[f] = val
	return nil
}

// Add returns the field-wise sum of both derivatives.
func (d Derivative) Add(o Derivative) Derivative {
	var r Derivative
	for i := range r.v {
		r.v[i] = d.v[i] + o.v[i]
	}
	return r
}

// Scale returns the derivative with every field multiplied by k.
func (d Derivative) Scale(k float64) Derivative {
	var r Derivative
	for i := range r.v {
		r.v[i] = d.v[i] * k
	}
	return r
}

// Divide returns the derivative with every field divided by k.
func (d Derivative) Divide(k float64) (Derivative, error) {
	if k == 0 {
		return Derivative{}, fmt.Errorf("derivative divided by zero: %w", ErrDivisionByZero)
	}
	var r Derivative
	for i := range r.v {
		r.v[i] = d.v[i] / k
	}
	return r, nil
}

// Integrate returns the state increment over dt, i.e. every field multiplied by dt.
func (d Derivative) Integrate(dt float64) State {
	var r State
	for i := range r.v {
		r.v[i] = d.v[i] * dt
	}
	return r
}

func (d Derivative) String() string {
	var b strings.Builder
	for i, val := range d.v {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "d%s=%g", Field(i), val)
	}
	return b.String()
}
