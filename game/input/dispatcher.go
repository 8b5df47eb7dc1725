package input

import (
	"sort"
	"sync"

	"github.com/CyberMindX-AI/merrychristmas/game/engine"
)

// Listener receives keys delivered by a Dispatcher and reports what it did
// with them.
type Listener func(key Key) (outcome engine.Outcome, forwarded bool)

// Delivery is one listener's result for a dispatched key
type Delivery struct {
	Outcome   engine.Outcome
	Forwarded bool
}

// Dispatcher delivers input stimuli to registered listeners one at a time,
// in the order they arrive, like a window event queue.
type Dispatcher struct {
	queue sync.Mutex // serializes delivery

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewDispatcher creates a dispatcher with no listeners
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[int]Listener),
	}
}

// Register adds a listener and returns the func that removes it.
// The release func may be called any number of times.
func (d *Dispatcher) Register(l Listener) (release func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch delivers key to every listener registered at the time of the
// call and returns their results in registration order.
func (d *Dispatcher) Dispatch(key Key) []Delivery {
	d.queue.Lock()
	defer d.queue.Unlock()

	targets := d.snapshot()
	results := make([]Delivery, 0, len(targets))
	for _, l := range targets {
		outcome, forwarded := l(key)
		results = append(results, Delivery{Outcome: outcome, Forwarded: forwarded})
	}
	return results
}

// Listeners returns the number of registered listeners
func (d *Dispatcher) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// snapshot returns the listeners in registration order
func (d *Dispatcher) snapshot() []Listener {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.listeners[id])
	}
	return out
}
