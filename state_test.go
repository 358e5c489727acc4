package neuromorphic

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestFieldNames(t *testing.T) {
	for _, f := range Fields() {
		pf, err := ParseField(f.String())
		if err != nil {
			t.Fatalf("could not parse %s: %s", f, err)
		}
		if pf != f {
			t.Fatalf("parsed %s as %s", f, pf)
		}
	}
	// Config loaders lowercase the keys.
	if f, err := ParseField("i_ext"); err != nil || f != FieldIExt {
		t.Fatalf("i_ext parsed as %s (%v)", f, err)
	}
	if _, err := ParseField("V"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestStateAccessors(t *testing.T) {
	s := NewState(-0.1, 0.05, 0.2, 2, 0.5, 1.5)
	exp := map[Field]float64{FieldU0: -0.1, FieldU: 0.05, FieldTheta: 0.2, FieldR: 2, FieldC: 0.5, FieldIExt: 1.5}
	for f, val := range exp {
		if s.Get(f) != val {
			t.Fatalf("%s=%g instead of %g", f, s.Get(f), val)
		}
		byName, err := s.GetByName(f.String())
		if err != nil || byName != val {
			t.Fatalf("%s by name=%g (%v) instead of %g", f, byName, err, val)
		}
	}
	if s.U0() != -0.1 || s.U() != 0.05 || s.Theta() != 0.2 || s.R() != 2 || s.C() != 0.5 || s.IExt() != 1.5 {
		t.Fatalf("typed accessors mismatch: %s", s)
	}
	if err := s.SetByName("theta", 1); err != nil || s.Theta() != 1 {
		t.Fatalf("SetByName failed: %v (%s)", err, s)
	}
	if err := s.SetByName("spike", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := s.GetByName("Vm"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestStateVectorSpace(t *testing.T) {
	a := NewState(0.1, -0.3, 0.7, 1.1, 2.3, -4.5)
	b := NewState(1.9, 0.2, -3.1, 0.01, 5.5, 0.25)
	c := NewState(-2.2, 7.3, 0.001, 3.3, -1, 9)
	a.Spike = true
	if ok, err := a.Add(b).Equals(b.Add(a), 0); !ok {
		t.Fatalf("addition is not commutative: %s", err)
	}
	if ok, err := a.Add(b).Add(c).Equals(a.Add(b.Add(c)), 1e-12); !ok {
		t.Fatalf("addition is not associative: %s", err)
	}
	if ok, err := a.Scale(3).Scale(0.5).Equals(a.Scale(1.5), 1e-12); !ok {
		t.Fatalf("scaling is not compatible with multiplication: %s", err)
	}
	if ok, err := a.Add(b).Scale(2).Equals(a.Scale(2).Add(b.Scale(2)), 1e-12); !ok {
		t.Fatalf("scaling does not distribute: %s", err)
	}
	half, err := a.Divide(2)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := half.Equals(a.Scale(0.5), 1e-15); !ok {
		t.Fatalf("division differs from scaling by the inverse: %s", err)
	}
	for _, r := range []State{a.Add(b), a.Scale(2), half} {
		if r.Spike {
			t.Fatal("arithmetic result kept the spike flag")
		}
	}
	if _, err := a.Divide(0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestStateCopy(t *testing.T) {
	a := NewState(0, 0.05, 0.1, 1, 1, 0)
	b := a.Copy()
	b.Set(FieldU, 1)
	b.Spike = true
	if a.U() != 0.05 || a.Spike {
		t.Fatalf("copy shares storage: %s", a)
	}
}

func TestStateEquals(t *testing.T) {
	a := NewState(0, 0.05, 0.1, 1, 1, 0)
	b := a
	b.Set(FieldU, 0.05+1e-9)
	if ok, _ := a.Equals(b, 0); ok {
		t.Fatal("exact comparison ignored a difference")
	}
	if ok, err := a.Equals(b, 1e-8); !ok {
		t.Fatalf("tolerance not applied: %s", err)
	}
	b = a
	b.Spike = true
	if ok, _ := a.Equals(b, 1); ok {
		t.Fatal("spike flag ignored")
	}
	nan := a
	nan.Set(FieldU, math.NaN())
	if ok, _ := nan.Equals(a, 1); ok {
		t.Fatal("NaN equal to a number")
	}
}

func TestDerivativeAlgebra(t *testing.T) {
	var d, e Derivative
	for i, f := range Fields() {
		d.Set(f, float64(i+1))
		e.Set(f, -0.5*float64(i))
	}
	if err := d.SetByName("U", 10); err != nil {
		t.Fatal(err)
	}
	if u, _ := d.GetByName("u"); u != 10 {
		t.Fatalf("dU=%g", u)
	}
	if _, err := d.GetByName("spike"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	sum := d.Add(e)
	for _, f := range Fields() {
		if sum.Get(f) != d.Get(f)+e.Get(f) {
			t.Fatalf("d%s sum invalid", f)
		}
	}
	div, err := d.Scale(6).Divide(6)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range Fields() {
		if !floats.EqualWithinAbs(div.Get(f), d.Get(f), 1e-14) {
			t.Fatalf("d%s: %g != %g", f, div.Get(f), d.Get(f))
		}
	}
	if _, err := d.Divide(0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	inc := d.Integrate(0.1)
	if inc.Spike {
		t.Fatal("integrated state spikes")
	}
	for _, f := range Fields() {
		if inc.Get(f) != d.Get(f)*0.1 {
			t.Fatalf("integrated %s invalid", f)
		}
	}
}
