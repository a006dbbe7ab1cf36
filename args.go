package plinth

import (
	"fmt"
	"sort"
)

// Args is an argument collection used to build a component or invoke a
// callable. It is either positional (bound by order) or named (bound by
// declared parameter name).
type Args struct {
	positional []any
	named      map[string]any
}

// Positional creates an argument list bound by parameter order.
func Positional(values ...any) Args {
	return Args{positional: values}
}

// Named creates an argument mapping bound by parameter name.
func Named(values map[string]any) Args {
	if values == nil {
		values = map[string]any{}
	}

	return Args{named: values}
}

// IsNamed reports whether the collection binds by parameter name.
func (a Args) IsNamed() bool {
	return a.named != nil
}

// Len returns the number of arguments in the collection.
func (a Args) Len() int {
	if a.named != nil {
		return len(a.named)
	}

	return len(a.positional)
}

// Values returns the positional values, or nil for a named collection.
func (a Args) Values() []any {
	return a.positional
}

// Lookup returns the named value for a parameter.
func (a Args) Lookup(name string) (any, bool) {
	v, ok := a.named[name]
	return v, ok
}

// String implements fmt.Stringer.
func (a Args) String() string {
	if a.named == nil {
		return fmt.Sprintf("%v", a.positional)
	}

	keys := make([]string, 0, len(a.named))
	for k := range a.named {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := "{"
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s:%v", k, a.named[k])
	}

	return out + "}"
}

// Target describes what a Producer is computing arguments for.
type Target struct {
	// Canonical is the canonical definition name being constructed.
	// Empty when the target is a callable.
	Canonical string

	// ID is the identifier or alias originally requested.
	ID string

	// Key is the override key derived from a callable, if any.
	Key string

	// Callable is the call target, nil during construction.
	Callable any
}

// Producer computes an argument collection on demand.
type Producer func(c *Container, t Target) (Args, error)

// override is a normalised argument override: literal or producer.
type override struct {
	args    Args
	produce Producer
}

// toOverride normalises the accepted override value shapes.
func toOverride(key string, value any) (override, error) {
	switch v := value.(type) {
	case Args:
		return override{args: v}, nil
	case *Args:
		if v == nil {
			return override{}, NewConfigurationError(key, "argument override is nil")
		}
		return override{args: *v}, nil
	case []any:
		return override{args: Positional(v...)}, nil
	case map[string]any:
		return override{args: Named(v)}, nil
	case Producer:
		if v == nil {
			return override{}, NewConfigurationError(key, "argument producer is nil")
		}
		return override{produce: v}, nil
	case func(*Container, Target) (Args, error):
		if v == nil {
			return override{}, NewConfigurationError(key, "argument producer is nil")
		}
		return override{produce: v}, nil
	case nil:
		return override{}, NewConfigurationError(key, "argument override is nil")
	default:
		return override{}, NewConfigurationError(key, fmt.Sprintf("unsupported argument override %T", value))
	}
}

// toArgs normalises a literal argument value passed to CallWith.
func toArgs(value any) (Args, bool) {
	switch v := value.(type) {
	case Args:
		return v, true
	case []any:
		return Positional(v...), true
	case map[string]any:
		return Named(v), true
	case nil:
		return Positional(), true
	default:
		return Args{}, false
	}
}
