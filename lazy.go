package plinth

import "fmt"

// Lazy wraps a component that is resolved on first access.
// This is useful for deferring resolution of expensive components until
// they're actually needed, or for reaching a component that is defined
// after the holder is built.
type Lazy[T any] struct {
	container *Container
	id        string
	value     T
	err       error
	resolved  bool
}

// NewLazy creates a new lazy component wrapper.
func NewLazy[T any](c *Container, id string) *Lazy[T] {
	return &Lazy[T]{
		container: c,
		id:        id,
	}
}

// Get resolves the component and returns it.
// The resolution happens only once; subsequent calls return the cached result.
func (l *Lazy[T]) Get() (T, error) {
	if !l.resolved {
		l.value, l.err = Get[T](l.container, l.id)
		l.resolved = true
	}

	return l.value, l.err
}

// MustGet resolves the component and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy component %s failed: %v", l.id, err))
	}

	return value
}

// IsResolved returns true if resolution has been attempted.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved
}

// ID returns the identifier of the component.
func (l *Lazy[T]) ID() string {
	return l.id
}
