// Package event provides generic event fan-out used by the channel client,
// the helper supervisor, and the extension observers.
package event

import "sync"

// Emitter delivers events to registered handlers in registration order.
// Handlers run synchronously on the emitting goroutine; for caretip components
// that is the event loop.
type Emitter[E any] struct {
	mu sync.RWMutex
	// +checklocks:mu
	handlers []*handler[E]
}

type handler[E any] struct {
	fn func(E)
}

// OnEvent registers an event handler and returns a function that removes it.
func (e *Emitter[E]) OnEvent(fn func(E)) (remove func()) {
	h := &handler[E]{fn: fn}

	e.mu.Lock()
	e.handlers = append(e.handlers, h)
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, cur := range e.handlers {
				if cur == h {
					e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of registered handlers.
func (e *Emitter[E]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// Emit sends an event to every registered handler.
// The handler slice is copied first so handlers may register or remove
// handlers while being called.
func (e *Emitter[E]) Emit(ev E) {
	e.mu.RLock()
	handlers := make([]*handler[E], len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		h.fn(ev)
	}
}
