package events

import (
	"sync"
)

// Broker fans chat queue events out to subscribers.
//
// Publish never blocks: a subscriber whose buffer is full misses the event.
// Every payload is a full state snapshot, so a dropped event is repaired by
// the next one.
type Broker struct {
	subscribers map[Type][]chan Event
	mu          sync.RWMutex
	bufferSize  int
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return NewBrokerWithBuffer(64)
}

// NewBrokerWithBuffer creates a broker whose subscription channels hold size events.
func NewBrokerWithBuffer(size int) *Broker {
	if size < 1 {
		size = 1
	}
	return &Broker{
		subscribers: make(map[Type][]chan Event),
		bufferSize:  size,
	}
}

// Subscribe creates a subscription to specific event types.
// With no types it receives everything.
func (b *Broker) Subscribe(types ...Type) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)

	if len(types) == 0 {
		types = []Type{wildcard}
	}

	for _, t := range types {
		b.subscribers[t] = append(b.subscribers[t], ch)
	}

	return ch
}

// Unsubscribe removes a subscription from every type it was registered for
// and closes its channel.
func (b *Broker) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var found chan Event
	for t, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				found = sub
				b.subscribers[t] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(b.subscribers[t]) == 0 {
			delete(b.subscribers, t)
		}
	}
	if found != nil {
		close(found)
	}
}

// Publish sends an event to all subscribers
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			// Channel full, skip this event
		}
	}

	for _, ch := range b.subscribers[wildcard] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Clear removes all subscriptions
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := make(map[chan Event]bool)
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			if !closed[ch] {
				close(ch)
				closed[ch] = true
			}
		}
	}

	b.subscribers = make(map[Type][]chan Event)
}
