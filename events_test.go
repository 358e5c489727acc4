package neuromorphic

import "testing"

func TestEventTypes(t *testing.T) {
	names := map[string]bool{}
	for _, e := range EventTypes() {
		names[e.String()] = true
	}
	for _, exp := range []string{"INIT", "RUN_START", "UPDATE", "NEURONE_SPIKE", "RUN_END", "RESET"} {
		if !names[exp] {
			t.Fatalf("missing event %s", exp)
		}
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("unknown event type did not panic")
		}
	}()
	_ = EventType(0).String()
}

func TestSubscribeTwice(t *testing.T) {
	sim, err := NewSimulation(restingNeurons(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	first := sim.Subscribe(EventUpdate, rec)
	if second := sim.Subscribe(EventUpdate, rec); second != first {
		t.Fatal("a subscriber registered twice got two handles")
	}
	other := sim.Subscribe(EventReset, rec)
	if other == first {
		t.Fatal("subscriptions to distinct events share a handle")
	}
	count := 0
	increment := func(EventType, *Simulation, interface{}) { count++ }
	sim.Subscribe(EventUpdate, SubscriberFunc(increment))
	sim.Subscribe(EventUpdate, SubscriberFunc(increment))
	if err := sim.Init(2, 0.1, ConstantInput(0)); err != nil {
		t.Fatal(err)
	}
	if err := sim.Update(); err != nil {
		t.Fatal(err)
	}
	if len(rec.events) != 1 || count != 2 {
		t.Fatalf("recorder notified %d times, functions %d times", len(rec.events), count)
	}
	if !sim.Unsubscribe(EventUpdate, first) || sim.Unsubscribe(EventUpdate, first) {
		t.Fatal("a subscriber registered twice must be removed at once")
	}
}
