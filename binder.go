package plinth

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Dispatcher is the host's lifecycle event dispatcher. It fires registered
// callbacks for an event in ascending priority order, declaration order on
// ties, passing at most arity runtime arguments.
type Dispatcher interface {
	RegisterCallback(event string, callback func(args ...any), priority, arity int)
}

// ModuleBinding is a module reference registered for an event.
type ModuleBinding struct {
	Event    string
	Priority int
	Ref      any
}

// Modules returns the registered module bindings in registration order.
func (c *Container) Modules() []ModuleBinding {
	out := make([]ModuleBinding, len(c.modules))
	for i, b := range c.modules {
		out[i] = ModuleBinding{Event: b.event, Priority: b.priority, Ref: b.ref}
	}

	return out
}

// moduleBinding is an entry of the module schedule.
type moduleBinding struct {
	event    string
	priority int
	ref      any
}

// bindModules registers a callback for every bindable module reference.
// Events are walked by name, priorities in ascending order, references in
// declaration order.
func (c *Container) bindModules(modules map[string]map[int][]any) {
	for _, event := range sortedKeys(modules) {
		arity, ok := c.hooks[event]
		if !ok {
			arity = 1
		}

		groups := modules[event]

		priorities := make([]int, 0, len(groups))
		for p := range groups {
			priorities = append(priorities, p)
		}
		sort.Ints(priorities)

		for _, priority := range priorities {
			for _, ref := range groups[priority] {
				if !c.canBind(ref) {
					c.logger.Debug("module not bound",
						zap.String("event", event),
						zap.Int("priority", priority),
						zap.String("module", moduleName(ref)),
					)
					continue
				}

				b := moduleBinding{event: event, priority: priority, ref: ref}
				c.modules = append(c.modules, b)
				c.dispatcher.RegisterCallback(event, c.moduleCallback(b), priority, arity)
			}
		}
	}
}

// canBind reports whether ref is callable or its identifier resolves.
func (c *Container) canBind(ref any) bool {
	s, ok := ref.(string)
	if !ok {
		return c.IsCallable(ref)
	}

	if c.IsCallable(s) {
		return true
	}

	id, _, _ := strings.Cut(s, "@")
	_, found := c.resolved.resolve(id, c.catalog)

	return found
}

// moduleCallback builds the deferred closure for a binding. Failures are
// logged and swallowed so sibling callbacks still run.
func (c *Container) moduleCallback(b moduleBinding) func(args ...any) {
	return func(args ...any) {
		if err := c.runModule(b.ref, args); err != nil {
			c.logger.Warn("module skipped",
				zap.String("event", b.event),
				zap.Int("priority", b.priority),
				zap.String("module", moduleName(b.ref)),
				zap.Error(err),
			)
		}
	}
}

// runModule executes one module reference with the event's arguments.
func (c *Container) runModule(ref any, args []any) error {
	s, ok := ref.(string)
	if !ok {
		return c.callWithEventArgs(ref, args)
	}

	id, method, hasMethod := strings.Cut(s, "@")
	if !hasMethod {
		if c.IsCallable(s) {
			return c.callWithEventArgs(s, args)
		}

		// Constructing the module is the action.
		_, err := c.Get(id)
		return err
	}

	instance, err := c.Get(id)
	if err != nil {
		return err
	}

	target := Method{Recv: instance, Name: method}
	if !c.IsCallable(target) {
		c.logger.Debug("module method not found",
			zap.String("module", s),
			zap.String("type", TypeNameOf(instance)),
		)
		return nil
	}

	return c.callWithEventArgs(target, args)
}

// callWithEventArgs invokes callable positionally, dropping event arguments
// the callable does not declare.
func (c *Container) callWithEventArgs(callable any, args []any) error {
	target, err := c.callTarget(callable)
	if err != nil {
		return err
	}

	if !target.sig.variadic && len(args) > len(target.sig.params) {
		args = args[:len(target.sig.params)]
	}

	values, err := target.sig.bind(target.owner(), Positional(args...))
	if err != nil {
		return err
	}

	_, err = target.invoke(values)

	return err
}

func moduleName(ref any) string {
	switch v := ref.(type) {
	case string:
		return v
	case Method:
		return v.String()
	}

	if name := FuncName(ref); name != "" {
		return name
	}

	return fmt.Sprintf("%T", ref)
}
