package neuromorphic

import (
	"errors"
	"testing"
)

func TestTimeSeries(t *testing.T) {
	ts := NewTimeSeries(4)
	if ts.Len() != 0 || ts.Cap() != 4 {
		t.Fatalf("new series len=%d cap=%d", ts.Len(), ts.Cap())
	}
	s := NewState(0, 0.05, 0.1, 1, 1, 0.5)
	if err := ts.Set(0, s, 0); err != nil {
		t.Fatal(err)
	}
	s.Set(FieldU, 0)
	s.Spike = true
	if err := ts.Set(1, s, 0.1); err != nil {
		t.Fatal(err)
	}
	if ts.Len() != 2 {
		t.Fatalf("len=%d", ts.Len())
	}
	if us := ts.Values(FieldU); len(us) != 2 || us[0] != 0.05 || us[1] != 0 {
		t.Fatalf("invalid U values %v", us)
	}
	if is, err := ts.ValuesByName("I_ext"); err != nil || is[1] != 0.5 {
		t.Fatalf("invalid I_ext values %v (%v)", is, err)
	}
	if spikes, err := ts.ValuesByName("spike"); err != nil || spikes[0] != 0 || spikes[1] != 1 {
		t.Fatalf("invalid spike values %v (%v)", spikes, err)
	}
	if times, err := ts.ValuesByName("t"); err != nil || times[1] != 0.1 {
		t.Fatalf("invalid times %v (%v)", times, err)
	}
	if _, err := ts.ValuesByName("W"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if st := ts.SpikeTimes(); len(st) != 1 || st[0] != 0.1 || ts.SpikeCount() != 1 {
		t.Fatalf("invalid spike times %v", st)
	}
	got, tm, err := ts.At(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != s || tm != 0.1 {
		t.Fatalf("At(1) = %s at %g", got, tm)
	}
	// Returned slices are copies.
	ts.Values(FieldU)[0] = 42
	ts.Spikes()[0] = true
	if ts.Values(FieldU)[0] != 0.05 || ts.Spikes()[0] {
		t.Fatal("series exposes its storage")
	}
}

func TestTimeSeriesBounds(t *testing.T) {
	ts := NewTimeSeries(2)
	s := DefaultLIFState()
	for _, i := range []int{-1, 2, 10} {
		if err := ts.Set(i, s, 0); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if err := ts.Set(1, s, 0.1); err != nil {
		t.Fatal(err)
	}
	if err := ts.Set(1, s, 0.1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("second write: expected ErrIndexOutOfRange, got %v", err)
	}
	if ts.Len() != 2 {
		t.Fatalf("len=%d after writing index 1", ts.Len())
	}
	if _, _, err := ts.At(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if NewTimeSeries(-3).Cap() != 0 {
		t.Fatal("negative capacity")
	}
}
