package neuromorphic

import (
	"errors"
	"testing"

	"github.com/gonum/floats"
)

func TestLIFDerivative(t *testing.T) {
	y := NewState(-0.07, -0.05, 0.1, 2, 0.5, 0.3)
	d, err := LIF{}.Derivative(0, y)
	if err != nil {
		t.Fatal(err)
	}
	exp := (2*0.3 - (-0.05 + 0.07)) / (2 * 0.5)
	if !floats.EqualWithinAbs(d.Get(FieldU), exp, 1e-15) {
		t.Fatalf("dU=%g instead of %g", d.Get(FieldU), exp)
	}
	for _, f := range []Field{FieldU0, FieldTheta, FieldR, FieldC, FieldIExt} {
		if d.Get(f) != 0 {
			t.Fatalf("d%s=%g", f, d.Get(f))
		}
	}
	for _, zero := range []State{NewState(0, 0, 0.1, 0, 1, 0), NewState(0, 0, 0.1, 1, 0, 0)} {
		if _, err := (LIF{}).Derivative(0, zero); !errors.Is(err, ErrDivisionByZero) {
			t.Fatalf("expected ErrDivisionByZero, got %v", err)
		}
	}
}

func TestNeuronSpikeAndReset(t *testing.T) {
	const dt = 0.01
	n := NewLIF(DefaultLIFState())
	U := 0.0
	spikes := 0
	for i := 0; i < 1000; i++ {
		// Euler recurrence, then threshold check on the integrated potential.
		U += dt * (1 - U)
		expSpike := U >= 0.1
		if expSpike {
			U = 0
			spikes++
		}
		spiked, err := n.UpdateEuler(dt, 1, 0)
		if err != nil {
			t.Fatal(err)
		}
		if spiked != expSpike {
			t.Fatalf("step %d: spike=%t expected %t", i, spiked, expSpike)
		}
		if spiked != n.State().Spike {
			t.Fatalf("step %d: returned spike differs from the state flag", i)
		}
		if n.State().U() != U {
			t.Fatalf("step %d: U=%g expected %g", i, n.State().U(), U)
		}
		if spiked && n.State().U() != n.State().U0() {
			t.Fatalf("step %d: not reset to U0", i)
		}
		if n.State().IExt() != 1 {
			t.Fatalf("step %d: I_ext not recorded", i)
		}
	}
	if spikes == 0 {
		t.Fatal("neuron never spiked")
	}
}

func TestNeuronPSP(t *testing.T) {
	n := NewLIF(NewState(0, 0, 0.1, 1, 1, 0))
	// Without any current the potential stays at rest, the PSP alone makes it spike.
	spiked, err := n.UpdateRK4(0.1, 0, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if spiked || n.State().U() != 0.05 {
		t.Fatalf("PSP not added: %s", n.State())
	}
	spiked, err = n.UpdateRK4(0.1, 0, 0.06)
	if err != nil {
		t.Fatal(err)
	}
	if !spiked || n.State().U() != 0 {
		t.Fatalf("PSP above threshold did not spike: %s", n.State())
	}
}

func TestNeuronErrorLeavesStateUntouched(t *testing.T) {
	init := NewState(0, 0.05, 0.1, 0, 1, 0)
	n := NewLIF(init)
	if _, err := n.UpdateEuler(0.1, 1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if ok, err := n.State().Equals(init, 0); !ok {
		t.Fatalf("failed update modified the state: %s", err)
	}
}

func TestNeuronResetAndClone(t *testing.T) {
	init := NewState(0, 0.02, 0.1, 1, 1, 0)
	n := NewLIF(init)
	c := n.Clone()
	for i := 0; i < 5; i++ {
		if _, err := n.UpdateEuler(0.01, 0.5, 0); err != nil {
			t.Fatal(err)
		}
	}
	if ok, _ := n.State().Equals(init, 0); ok {
		t.Fatal("neuron did not evolve")
	}
	if ok, err := c.State().Equals(init, 0); !ok {
		t.Fatalf("clone shares its state: %s", err)
	}
	n.Reset()
	if ok, err := n.State().Equals(init, 0); !ok {
		t.Fatalf("reset did not restore the initial state: %s", err)
	}
	if n.Model().String() != "LIF" || n.Initial() != init {
		t.Fatalf("unexpected neuron %s", n)
	}
}

func TestAdvanceIsPure(t *testing.T) {
	n := NewLIF(DefaultLIFState())
	before := n.State()
	next, err := n.Advance(0.01, 20, 0, RK4Integrator)
	if err != nil {
		t.Fatal(err)
	}
	if n.State() != before {
		t.Fatal("Advance modified the neuron")
	}
	if !next.Spike {
		t.Fatalf("strong current did not spike: %s", next)
	}
	if !n.Commit(next) || n.State() != next {
		t.Fatal("commit did not set the state")
	}
}

func TestStrategies(t *testing.T) {
	for name, exp := range map[string]UpdateStrategy{"euler": EulerUpdate{}, "RK4": RK4Update{}, "": EulerUpdate{}, " Euler ": EulerUpdate{}} {
		s, err := ParseStrategy(name)
		if err != nil {
			t.Fatal(err)
		}
		if s != exp {
			t.Fatalf("%q parsed as %s", name, s)
		}
	}
	if _, err := ParseStrategy("midpoint"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, s := range []UpdateStrategy{EulerUpdate{}, RK4Update{}} {
		a := NewLIF(DefaultLIFState())
		b := NewLIF(DefaultLIFState())
		next, err := s.Next(a, 0.05, 1, 0)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Update(b, 0.05, 1, 0); err != nil {
			t.Fatal(err)
		}
		if next != b.State() {
			t.Fatalf("%s: Next and Update disagree", s)
		}
	}
	if _, err := uniformStrategies(2, []UpdateStrategy{EulerUpdate{}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}
