package neuromorphic

import (
	"fmt"
	"reflect"

	kitlog "github.com/go-kit/kit/log"
	"github.com/google/uuid"
)

// EventType defines the lifecycle events published by a Simulation.
type EventType uint8

const (
	// EventInit is published at the end of Init, with the time series as payload.
	EventInit EventType = iota + 1
	// EventRunStart is published before the first update of Run.
	EventRunStart
	// EventUpdate is published once every neuron of a tick was updated and recorded.
	EventUpdate
	// EventSpike is published for every neuron which spiked, with a SpikeEvent as payload.
	EventSpike
	// EventRunEnd is published after the last update of Run.
	EventRunEnd
	// EventReset is published at the end of Reset.
	EventReset
)

func (e EventType) String() string {
	switch e {
	case EventInit:
		return "INIT"
	case EventRunStart:
		return "RUN_START"
	case EventUpdate:
		return "UPDATE"
	case EventSpike:
		return "NEURONE_SPIKE"
	case EventRunEnd:
		return "RUN_END"
	case EventReset:
		return "RESET"
	}
	panic(fmt.Errorf("cannot stringify unknown event type %d", e))
}

// EventTypes returns all the event types.
func EventTypes() []EventType {
	return []EventType{EventInit, EventRunStart, EventUpdate, EventSpike, EventRunEnd, EventReset}
}

// SpikeEvent is the payload of EventSpike: a snapshot of the state of the spiking neuron.
type SpikeEvent struct {
	Neuron    int
	Iteration int
	Time      float64
	State     State
}

// Subscriber receives the events of a simulation.
type Subscriber interface {
	Notify(event EventType, sim *Simulation, payload interface{})
}

// SubscriberFunc allows using a function as a Subscriber.
type SubscriberFunc func(event EventType, sim *Simulation, payload interface{})

// Notify implements the Subscriber interface.
func (f SubscriberFunc) Notify(event EventType, sim *Simulation, payload interface{}) {
	f(event, sim, payload)
}

// publisher keeps unordered sets of subscribers per event type.
type publisher struct {
	subscribers map[EventType]map[uuid.UUID]Subscriber
}

// Subscribe registers s for the provided event type and returns the handle to unsubscribe it.
// Subscribers of the same event are notified in no particular order. Subscribing a comparable
// subscriber (e.g. a pointer) again to the same event returns its existing handle, whereas
// every call with a SubscriberFunc adds a distinct subscription.
func (p *publisher) Subscribe(event EventType, s Subscriber) uuid.UUID {
	if s == nil {
		panic("cannot subscribe a nil subscriber")
	}
	if reflect.TypeOf(s).Comparable() {
		for handle, sub := range p.subscribers[event] {
			if sub == s {
				return handle
			}
		}
	}
	if p.subscribers == nil {
		p.subscribers = make(map[EventType]map[uuid.UUID]Subscriber)
	}
	if p.subscribers[event] == nil {
		p.subscribers[event] = make(map[uuid.UUID]Subscriber)
	}
	handle := uuid.New()
	p.subscribers[event][handle] = s
	return handle
}

// Unsubscribe removes a subscription and returns whether it existed.
func (p *publisher) Unsubscribe(event EventType, handle uuid.UUID) bool {
	if _, exists := p.subscribers[event][handle]; !exists {
		return false
	}
	delete(p.subscribers[event], handle)
	return true
}

func (p *publisher) notify(event EventType, sim *Simulation, payload interface{}) {
	for _, s := range p.subscribers[event] {
		s.Notify(event, sim, payload)
	}
}

// LogSubscriber returns a subscriber which logs every event it is subscribed to.
func LogSubscriber(logger kitlog.Logger) Subscriber {
	return SubscriberFunc(func(event EventType, sim *Simulation, payload interface{}) {
		switch event {
		case EventSpike:
			if spike, ok := payload.(SpikeEvent); ok {
				logger.Log("level", "info", "subsys", "neuron", "event", event.String(), "neuron", sim.Names()[spike.Neuron], "t", spike.Time, "state", spike.State.String())
				return
			}
		case EventUpdate:
			logger.Log("level", "debug", "subsys", "sim", "event", event.String(), "iteration", sim.Iteration(), "t", float64(sim.Iteration())*sim.Dt())
			return
		}
		logger.Log("level", "info", "subsys", "sim", "event", event.String(), "iteration", sim.Iteration(), "steps", sim.Steps())
	})
}
