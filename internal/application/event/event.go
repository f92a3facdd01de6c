// Package event carries named simulation events to presentation-side listeners.
// Dispatch is synchronous on the simulation goroutine; listeners must not block.
package event

// Type names an event
type Type string

// Event is one dispatched occurrence
type Event struct {
	Type Type
	Data any
}

// Listener receives events it subscribed to
type Listener interface {
	OnEvent(e Event)
}

type funcListener struct {
	fn func(Event)
}

func (f *funcListener) OnEvent(e Event) { f.fn(e) }

// Bus dispatches events to subscribers by type
type Bus struct {
	listeners map[Type][]Listener
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[Type][]Listener),
	}
}

// Subscribe registers a listener for one event type
func (b *Bus) Subscribe(t Type, l Listener) {
	b.listeners[t] = append(b.listeners[t], l)
}

// SubscribeFunc registers fn and returns the Listener to pass to Unsubscribe
func (b *Bus) SubscribeFunc(t Type, fn func(Event)) Listener {
	l := &funcListener{fn: fn}
	b.Subscribe(t, l)
	return l
}

// Unsubscribe removes a listener from one event type
func (b *Bus) Unsubscribe(t Type, l Listener) {
	listeners := b.listeners[t]
	for i, cur := range listeners {
		if cur == l {
			b.listeners[t] = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

// Dispatch delivers e to every subscriber of its type in subscription order
func (b *Bus) Dispatch(e Event) {
	for _, l := range b.listeners[e.Type] {
		l.OnEvent(e)
	}
}

// Emit dispatches an event built from t and data. A nil bus drops it.
func (b *Bus) Emit(t Type, data any) {
	if b == nil {
		return
	}
	b.Dispatch(Event{Type: t, Data: data})
}

// Listeners returns the number of subscribers for t
func (b *Bus) Listeners(t Type) int {
	return len(b.listeners[t])
}
