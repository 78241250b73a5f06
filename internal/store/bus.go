package store

import "sync"

// bus fans change events out to same-context subscribers. Backends
// push their own writes through it too, so a context observes its own
// changes the same way it observes everyone else's.
type bus struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func(Event)
}

func newBus() *bus {
	return &bus{subs: make(map[string]map[int]func(Event))}
}

func (b *bus) subscribe(key string, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]func(Event))
	}
	b.subs[key][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[key], id)
	}
}

// emit delivers e to every subscriber of e.Key, synchronously, so
// deliveries for one key keep write order.
func (b *bus) emit(e Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs[e.Key]))
	for _, fn := range b.subs[e.Key] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
