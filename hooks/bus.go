// Package hooks provides an in-memory lifecycle event dispatcher. Callbacks
// are registered per event with a priority and an arity, and fire
// synchronously in ascending priority order when the event is fired.
package hooks

import "sort"

// Priority presets for callback registration. Lower fires earlier.
const (
	PriorityUrgent   = -10000
	PriorityVeryHigh = 1
	PriorityHigh     = 5
	PriorityDefault  = 10
	PriorityLow      = 50
	PriorityVeryLow  = 100
	PriorityLazy     = 10000
)

// Callback receives the runtime arguments of a fired event.
type Callback = func(args ...any)

// subscription tracks a single registered callback
type subscription struct {
	priority int
	arity    int
	callback Callback
}

// Bus is a synchronous event dispatcher. It is not safe for concurrent use.
type Bus struct {
	callbacks map[string][]subscription
}

// NewBus creates an empty dispatcher.
func NewBus() *Bus {
	return &Bus{callbacks: make(map[string][]subscription)}
}

// RegisterCallback adds a callback for event. The callback receives at most
// arity of the arguments the event is fired with.
func (b *Bus) RegisterCallback(event string, callback Callback, priority, arity int) {
	if callback == nil {
		return
	}

	if arity < 0 {
		arity = 0
	}

	b.callbacks[event] = append(b.callbacks[event], subscription{
		priority: priority,
		arity:    arity,
		callback: callback,
	})

	// Keep registration order among equal priorities.
	subs := b.callbacks[event]
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].priority < subs[j].priority
	})
}

// Fire runs every callback registered for event.
func (b *Bus) Fire(event string, args ...any) {
	subs := append([]subscription(nil), b.callbacks[event]...)

	for _, s := range subs {
		n := s.arity
		if n > len(args) {
			n = len(args)
		}
		s.callback(args[:n]...)
	}
}

// Has reports whether any callback is registered for event.
func (b *Bus) Has(event string) bool {
	return len(b.callbacks[event]) > 0
}

// Count returns the number of callbacks registered for event.
func (b *Bus) Count(event string) int {
	return len(b.callbacks[event])
}

// Priorities returns the priorities registered for event in firing order.
func (b *Bus) Priorities(event string) []int {
	subs := b.callbacks[event]
	out := make([]int, len(subs))
	for i, s := range subs {
		out[i] = s.priority
	}

	return out
}
