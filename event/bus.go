package event

import "fmt"

// MaxHandlers bounds the handler registry, matching the original source's
// ArrayVec<_, 32> ears field (spec.md §4.5).
const MaxHandlers = 32

// Handler reacts to an Event. It returns nothing: a Handler signals it
// has finished with an Event by calling Event.Take, not by a return
// value, so several handlers can inspect the same Event before one of
// them claims it.
type Handler func(*Event)

// Bus is the bounded, ordered handler registry and dispatcher described
// in spec.md §4.5, grounded on the original source's Core.listen/Core.fire.
type Bus struct {
	handlers []Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make([]Handler, 0, MaxHandlers)}
}

// Listen registers h to run on every subsequent Fire, in the order
// Listen was called. It panics if the registry is already at MaxHandlers
// capacity - this is a fixed, compile-time-sized resource
// (spec.md §4.5), not one that degrades gracefully at runtime.
func (b *Bus) Listen(h Handler) {
	if len(b.handlers) >= MaxHandlers {
		panic(fmt.Sprintf("event: handler registry full (max %d)", MaxHandlers))
	}
	b.handlers = append(b.handlers, h)
}

// Fire dispatches e to every registered handler in order, stopping early
// if a handler calls e.Take.
func (b *Bus) Fire(e *Event) {
	for _, h := range b.handlers {
		h(e)
		if e.Taken {
			return
		}
	}
}

// Len reports how many handlers are currently registered.
func (b *Bus) Len() int {
	return len(b.handlers)
}
