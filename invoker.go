package plinth

import (
	"fmt"
	"reflect"
)

// Method refers to a method as a call target. Recv is either an instance,
// for a bound method, or a type name string, for a type-level function
// registered in the catalog under MethodKey(type, name).
//
// Example:
//
//	c.Call(plinth.Method{Recv: report, Name: "Render"})
//	c.Call(plinth.Method{Recv: plinth.TypeName[Report](), Name: "Parse"})
type Method struct {
	Recv any
	Name string
}

// String implements fmt.Stringer.
func (m Method) String() string {
	if s, ok := m.Recv.(string); ok {
		return MethodKey(s, m.Name)
	}

	return MethodKey(TypeNameOf(m.Recv), m.Name)
}

// callTarget is a normalised call target.
type callTarget struct {
	fn  reflect.Value
	sig *signature
	key string
}

func (t *callTarget) owner() string {
	if t.key != "" {
		return t.key
	}

	return t.fn.Type().String()
}

func (t *callTarget) invoke(values []reflect.Value) (any, error) {
	return callResults(t.fn.Type(), t.fn.Call(values))
}

// Call invokes callable with arguments from the override table entry for
// its key, or, when there is none, from signature introspection. A callable
// is a catalog function name, a Method, or any func value.
//
// Example:
//
//	// func Notify(m *Mailer, q *Queue) error
//	_, err := c.Call(Notify)
func (c *Container) Call(callable any) (any, error) {
	target, err := c.callTarget(callable)
	if err != nil {
		return nil, err
	}

	var values []reflect.Value

	if o, _, ok := c.overrides.lookup(target.key); ok {
		args, err := o.resolve(c, Target{Key: target.key, Callable: callable})
		if err != nil {
			return nil, err
		}

		values, err = target.sig.bind(target.owner(), args)
		if err != nil {
			return nil, err
		}
	} else {
		values, err = c.autowire(target.owner(), target.sig)
		if err != nil {
			return nil, err
		}
	}

	return target.invoke(values)
}

// CallWith invokes callable with explicit arguments: Args, []any,
// map[string]any, or a Producer computing them.
//
// Example:
//
//	out, err := c.CallWith(plinth.Method{Recv: greeter, Name: "Greet"},
//	    map[string]any{"name": "Ada", "greeting": "Hello"})
func (c *Container) CallWith(callable any, args any) (any, error) {
	target, err := c.callTarget(callable)
	if err != nil {
		return nil, err
	}

	var collection Args

	switch v := args.(type) {
	case Producer:
		collection, err = v(c, Target{Key: target.key, Callable: callable})
	case func(*Container, Target) (Args, error):
		collection, err = v(c, Target{Key: target.key, Callable: callable})
	default:
		literal, ok := toArgs(args)
		if !ok {
			return nil, NewConfigurationError(target.owner(), fmt.Sprintf("unsupported arguments %T", args))
		}
		collection = literal
	}

	if err != nil {
		return nil, err
	}

	values, err := target.sig.bind(target.owner(), collection)
	if err != nil {
		return nil, err
	}

	return target.invoke(values)
}

// IsCallable reports whether callable can be invoked by Call.
func (c *Container) IsCallable(callable any) bool {
	_, err := c.callTarget(callable)
	return err == nil
}

// callTarget normalises callable and derives its override key.
func (c *Container) callTarget(callable any) (*callTarget, error) {
	switch v := callable.(type) {
	case string:
		return c.functionTarget(v, callable)

	case Method:
		if v.Name == "" || v.Recv == nil {
			return nil, ErrNotInvocable(callable)
		}

		if typ, ok := v.Recv.(string); ok {
			return c.functionTarget(MethodKey(typ, v.Name), callable)
		}

		method := reflect.ValueOf(v.Recv).MethodByName(v.Name)
		if !method.IsValid() {
			return nil, ErrNotInvocable(callable)
		}

		key := MethodKey(TypeNameOf(v.Recv), v.Name)

		sig, err := analyzeSignature(method.Type(), c.catalog.methodParams(key))
		if err != nil {
			return nil, NewConfigurationError(key, err.Error())
		}

		return &callTarget{fn: method, sig: sig, key: key}, nil
	}

	fn := reflect.ValueOf(callable)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, ErrNotInvocable(callable)
	}

	key := FuncName(callable)
	if f, ok := c.catalog.function(key); ok && key != "" {
		return &callTarget{fn: fn, sig: f.sig, key: key}, nil
	}

	sig, err := analyzeSignature(fn.Type(), nil)
	if err != nil {
		return nil, NewConfigurationError(fn.Type().String(), err.Error())
	}

	return &callTarget{fn: fn, sig: sig, key: key}, nil
}

func (c *Container) functionTarget(name string, callable any) (*callTarget, error) {
	f, ok := c.catalog.function(name)
	if !ok {
		return nil, ErrNotInvocable(callable)
	}

	return &callTarget{fn: f.fn, sig: f.sig, key: name}, nil
}
