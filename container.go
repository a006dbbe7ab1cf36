package plinth

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/xraph/plinth/hooks"
)

// SelfAlias is the alias the container registers itself under.
const SelfAlias = "container"

// Container builds, caches and wires components described by a Catalog.
// It is single-threaded: the host constructs it once and uses it from one
// goroutine for the life of the process.
type Container struct {
	main    string
	version string

	catalog    *Catalog
	resolved   *resolutionTable
	store      *componentStore
	overrides  *overrideTable
	hooks      map[string]int
	modules    []moduleBinding
	dispatcher Dispatcher
	logger     *zap.Logger
	middleware *middlewareChain

	// building is the stack of canonical names under construction.
	building []string
}

// ComponentInfo contains diagnostic information about an identifier.
type ComponentInfo struct {
	ID        string
	Canonical string
	Resolved  bool
	Built     bool
	Type      string
}

// New creates a container from cfg. Bindings and argument overrides are
// loaded, then every module reference is registered with the dispatcher.
//
// Example:
//
//	catalog := plinth.NewCatalog()
//	catalog.MustDefine(NewMailer, plinth.Names("host"))
//
//	c, err := plinth.New(plinth.Config{
//	    Main:      "cmd/app/main.go",
//	    Bindings:  map[string]string{"mailer": plinth.TypeName[Mailer]()},
//	    Arguments: map[string]any{"mailer": map[string]any{"host": "smtp.local"}},
//	}, plinth.WithCatalog(catalog))
func New(cfg Config, opts ...Option) (*Container, error) {
	c := &Container{
		resolved:   newResolutionTable(),
		store:      newComponentStore(),
		overrides:  newOverrideTable(),
		middleware: newMiddlewareChain(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.catalog == nil {
		c.catalog = NewCatalog()
	}

	if c.dispatcher == nil {
		c.dispatcher = hooks.NewBus()
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	if err := c.initialize(cfg); err != nil {
		return nil, err
	}

	return c, nil
}

// initialize populates the tables and registers module callbacks.
func (c *Container) initialize(cfg Config) error {
	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return err
	}

	c.main = cfg.Main
	c.version = cfg.Version
	c.hooks = cfg.Hooks

	self := typeName(containerType)
	c.resolved.bind(SelfAlias, self)
	c.resolved.bind(self, self)
	c.store.put(self, c)

	for alias, canonical := range cfg.Bindings {
		c.resolved.bind(alias, canonical)
	}

	for key, value := range cfg.Arguments {
		o, err := toOverride(key, value)
		if err != nil {
			return err
		}
		c.overrides.set(key, o)
	}

	c.bindModules(cfg.Modules)

	return nil
}

// Has reports whether id names a constructible definition or an identifier
// that already resolved.
func (c *Container) Has(id string) bool {
	if c.catalog.Has(id) {
		return true
	}

	r, ok := c.resolved.lookup(id)

	return ok && r.found()
}

// Get returns the component for id, building and caching it on first use.
// Identifiers that failed to resolve once keep failing: define every
// component before it is first requested.
func (c *Container) Get(id string) (any, error) {
	return c.get(id, nil)
}

// GetWith builds a fresh component for id with arguments from ctor. The
// result is never cached and the cache is left untouched.
//
// Example:
//
//	client, err := c.GetWith("http.client", func(c *plinth.Container, t plinth.Target) (plinth.Args, error) {
//	    return plinth.Positional("https://example.test", 3), nil
//	})
func (c *Container) GetWith(id string, ctor Producer) (any, error) {
	if ctor == nil {
		return nil, NewConfigurationError(id, "constructor override is nil")
	}

	return c.get(id, ctor)
}

// Lookup is a lenient Get: any failure yields (nil, false).
func (c *Container) Lookup(id string) (any, bool) {
	instance, err := c.Get(id)
	if err != nil {
		return nil, false
	}

	return instance, true
}

// Set stores value under name directly, bypassing resolution. A later Get
// only reaches it when name also resolves.
func (c *Container) Set(name string, value any) {
	c.store.put(name, value)
}

// Main returns the host entry point identifier.
func (c *Container) Main() string {
	return c.main
}

// Version returns the configured version.
func (c *Container) Version() string {
	return c.version
}

// Catalog returns the definitions the container constructs from.
func (c *Container) Catalog() *Catalog {
	return c.catalog
}

// Dispatcher returns the event dispatcher module callbacks were registered with.
func (c *Container) Dispatcher() Dispatcher {
	return c.dispatcher
}

// Use adds middleware to the container.
// Middleware is called in the order they are added.
func (c *Container) Use(middleware Middleware) {
	c.middleware.add(middleware)
}

// Inspect returns diagnostic information about id without resolving it.
func (c *Container) Inspect(id string) ComponentInfo {
	info := ComponentInfo{ID: id}

	canonical := ""
	if r, ok := c.resolved.lookup(id); ok && r.found() {
		canonical = r.canonical
		info.Resolved = true
	} else if c.catalog.Has(id) {
		canonical = id
	}
	info.Canonical = canonical

	if instance, ok := c.store.get(canonical); ok && canonical != "" {
		info.Built = true
		info.Type = fmt.Sprintf("%T", instance)
	} else if def, ok := c.catalog.Lookup(canonical); ok {
		info.Type = def.Type().String()
	}

	return info
}

// Components returns the canonical names of every built component, sorted.
func (c *Container) Components() []string {
	names := make([]string, 0, len(c.store.instances))
	for name := range c.store.instances {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// get wraps resolution with middleware.
func (c *Container) get(id string, ctor Producer) (any, error) {
	if err := c.middleware.beforeGet(id); err != nil {
		return nil, err
	}

	instance, err := c.getInternal(id, ctor)

	if mwErr := c.middleware.afterGet(id, instance, err); mwErr != nil {
		return nil, mwErr
	}

	return instance, err
}

func (c *Container) getInternal(id string, ctor Producer) (any, error) {
	if id == "" {
		return nil, ErrEmptyIdentifier
	}

	return c.instantiate(id, ctor)
}

// instantiate resolves id and builds its component. A failed resolution is
// remembered, so the identifier stays unknown even if defined later. Without ctor a stored
// instance is reused and a new one is stored; with ctor the store is never
// read or written.
func (c *Container) instantiate(id string, ctor Producer) (any, error) {
	canonical, ok := c.resolved.resolve(id, c.catalog)
	if !ok {
		return nil, ErrNotFound(id)
	}

	if ctor == nil {
		if instance, ok := c.store.get(canonical); ok {
			return instance, nil
		}
	}

	def, ok := c.catalog.Lookup(canonical)
	if !ok {
		return nil, ErrNotFound(canonical)
	}

	// An explicit producer builds outside the store, so it may Get the
	// shared instance of the same canonical name. Nested Gets guard themselves.
	if ctor == nil {
		if err := c.enter(canonical); err != nil {
			return nil, err
		}
		defer c.leave()
	}

	values, err := c.constructorValues(def, id, ctor)
	if err != nil {
		return nil, err
	}

	instance, err := def.construct(values)
	if err != nil {
		return nil, err
	}

	if ctor == nil {
		c.store.put(canonical, instance)
	}

	return instance, nil
}

// constructorValues determines constructor arguments: the explicit override,
// then the override table by canonical name and requested identifier, then
// signature introspection.
func (c *Container) constructorValues(def *Definition, id string, ctor Producer) ([]reflect.Value, error) {
	target := Target{Canonical: def.name, ID: id}

	if ctor != nil {
		args, err := ctor(c, target)
		if err != nil {
			return nil, err
		}

		return def.sig.bind(def.name, args)
	}

	if o, _, ok := c.overrides.lookup(def.name, id); ok {
		args, err := o.resolve(c, target)
		if err != nil {
			return nil, err
		}

		return def.sig.bind(def.name, args)
	}

	return c.autowire(def.name, def.sig)
}

// autowire fills every parameter from the signature alone: components are
// fetched with Get by type name, built-ins take their default or nil.
func (c *Container) autowire(owner string, sig *signature) ([]reflect.Value, error) {
	values := make([]reflect.Value, 0, len(sig.params))

	for _, p := range sig.params {
		if !p.component {
			v, err := p.fallback(owner)
			if err != nil {
				return nil, err
			}
			values = append(values, v)

			continue
		}

		dep, err := c.Get(p.depName)
		if err != nil {
			return nil, err
		}

		v, err := coerce(owner, dep, p.typ)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

// enter pushes canonical onto the build stack, failing if it is already there.
func (c *Container) enter(canonical string) error {
	for i, name := range c.building {
		if name == canonical {
			cycle := append(append([]string{}, c.building[i:]...), canonical)
			return ErrCircularDependency(cycle)
		}
	}

	c.building = append(c.building, canonical)

	return nil
}

func (c *Container) leave() {
	c.building = c.building[:len(c.building)-1]
}

// resolve produces the argument collection for an override.
func (o override) resolve(c *Container, t Target) (Args, error) {
	if o.produce == nil {
		return o.args, nil
	}

	return o.produce(c, t)
}
