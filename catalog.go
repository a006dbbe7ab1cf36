package plinth

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"sort"
)

// DefineOption configures how a definition or function is registered
type DefineOption interface {
	applyDefinition(*definitionConfig)
}

// definitionConfig holds configuration for a registration
type definitionConfig struct {
	name    string
	params  []Param
	methods map[string][]Param
}

// defineOptionFunc is a function adapter for DefineOption
type defineOptionFunc func(*definitionConfig)

func (f defineOptionFunc) applyDefinition(c *definitionConfig) { f(c) }

// WithName registers the definition under an explicit canonical name instead
// of its result type name.
//
// Example:
//
//	catalog.Define(NewPrimaryDB, plinth.WithName("db.primary"))
func WithName(name string) DefineOption {
	return defineOptionFunc(func(c *definitionConfig) {
		c.name = name
	})
}

// Params declares parameter metadata, in order.
func Params(params ...Param) DefineOption {
	return defineOptionFunc(func(c *definitionConfig) {
		c.params = append(c.params, params...)
	})
}

// Names declares parameter names, in order, without defaults.
//
// Example:
//
//	catalog.Define(NewGreeter, plinth.Names("greeting", "name"))
func Names(names ...string) DefineOption {
	return defineOptionFunc(func(c *definitionConfig) {
		for _, n := range names {
			c.params = append(c.params, P(n))
		}
	})
}

// WithMethod declares parameter metadata for a method of the definition's
// result type, so named arguments can bind to it through Call. The metadata
// is keyed by the result type and applies under any WithName.
func WithMethod(method string, params ...Param) DefineOption {
	return defineOptionFunc(func(c *definitionConfig) {
		if c.methods == nil {
			c.methods = make(map[string][]Param)
		}
		c.methods[method] = params
	})
}

// Definition is a constructible component: a constructor and the analyzed
// signature used to inject its parameters.
type Definition struct {
	name   string
	fn     reflect.Value
	result reflect.Type
	sig    *signature
	hasErr bool
}

// Name returns the canonical name.
func (d *Definition) Name() string {
	return d.name
}

// Type returns the type the constructor produces.
func (d *Definition) Type() reflect.Type {
	return d.result
}

// construct calls the constructor with bound arguments.
func (d *Definition) construct(values []reflect.Value) (any, error) {
	results := d.fn.Call(values)

	if d.hasErr {
		if errVal := results[1]; !errVal.IsNil() {
			return nil, NewConstructionError(d.name, errVal.Interface().(error))
		}
	}

	return results[0].Interface(), nil
}

// function is a named invocable registered in a catalog.
type function struct {
	name string
	fn   reflect.Value
	sig  *signature
}

// Catalog is the table of definitions a container can construct and the
// named functions it can invoke. It is owned by the host and handed to the
// container; definitions may be added at any time.
type Catalog struct {
	definitions map[string]*Definition
	functions   map[string]*function
	methods     map[string][]Param
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		definitions: make(map[string]*Definition),
		functions:   make(map[string]*function),
		methods:     make(map[string][]Param),
	}
}

// Define registers a constructor. The constructor must be a non-variadic
// function returning T or (T, error); T's package-qualified name, with any
// pointer stripped, becomes the canonical name unless WithName is given.
//
// Example:
//
//	func NewUserService(repo *UserRepo, pageSize int) *UserService { ... }
//
//	catalog.Define(NewUserService, plinth.Params(plinth.P("repo"), plinth.P("pageSize").Default(20)))
func (c *Catalog) Define(constructor any, opts ...DefineOption) error {
	cfg := &definitionConfig{}
	for _, opt := range opts {
		opt.applyDefinition(cfg)
	}

	fnValue := reflect.ValueOf(constructor)
	if !fnValue.IsValid() || fnValue.Kind() != reflect.Func || fnValue.IsNil() {
		return NewConfigurationError(fmt.Sprintf("%T", constructor), "constructor must be a function")
	}

	fnType := fnValue.Type()
	if fnType.IsVariadic() {
		return NewConfigurationError(fnType.String(), "constructor must not be variadic")
	}

	var hasErr bool

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return NewConfigurationError(fnType.String(), "second return value must be error")
		}
		hasErr = true
	default:
		return NewConfigurationError(fnType.String(), "constructor must return T or (T, error)")
	}

	result := fnType.Out(0)
	if result == errorType {
		return NewConfigurationError(fnType.String(), "constructor must return a non-error value")
	}

	name := cfg.name
	if name == "" {
		name = typeName(result)
	}

	if _, exists := c.definitions[name]; exists {
		return NewConfigurationError(name, "definition already exists")
	}

	sig, err := analyzeSignature(fnType, cfg.params)
	if err != nil {
		return NewConfigurationError(name, err.Error())
	}

	// Bound calls look methods up by receiver type, not by canonical name.
	recvName := typeName(result)
	for method, params := range cfg.methods {
		key := MethodKey(recvName, method)
		m, ok := result.MethodByName(method)
		if !ok {
			return NewConfigurationError(name, fmt.Sprintf("type %s has no method %s", result, method))
		}
		// Method types from a reflect.Type include the receiver.
		if m.Type.NumIn()-1 < len(params) {
			return NewConfigurationError(key, "more parameters declared than the method takes")
		}
		c.methods[key] = params
	}

	c.definitions[name] = &Definition{
		name:   name,
		fn:     fnValue,
		result: result,
		sig:    sig,
		hasErr: hasErr,
	}

	return nil
}

// MustDefine registers a constructor, panicking on error.
func (c *Catalog) MustDefine(constructor any, opts ...DefineOption) {
	if err := c.Define(constructor, opts...); err != nil {
		panic(fmt.Sprintf("MustDefine failed: %v", err))
	}
}

// Func registers a named function that Call can invoke by name. Use
// MethodKey to register a type-level ("static") function. An empty name
// registers the function under its runtime name.
//
// Example:
//
//	catalog.Func(plinth.MethodKey(plinth.TypeName[Report](), "Render"), RenderReport)
func (c *Catalog) Func(name string, fn any, opts ...DefineOption) error {
	cfg := &definitionConfig{}
	for _, opt := range opts {
		opt.applyDefinition(cfg)
	}

	fnValue := reflect.ValueOf(fn)
	if !fnValue.IsValid() || fnValue.Kind() != reflect.Func || fnValue.IsNil() {
		return NewConfigurationError(name, "function must be a func value")
	}

	if name == "" {
		name = FuncName(fn)
		if name == "" {
			return NewConfigurationError(fnValue.Type().String(), "anonymous functions need an explicit name")
		}
	}

	if _, exists := c.functions[name]; exists {
		return NewConfigurationError(name, "function already exists")
	}

	sig, err := analyzeSignature(fnValue.Type(), cfg.params)
	if err != nil {
		return NewConfigurationError(name, err.Error())
	}

	c.functions[name] = &function{name: name, fn: fnValue, sig: sig}

	return nil
}

// Has reports whether name is a constructible definition.
func (c *Catalog) Has(name string) bool {
	_, ok := c.definitions[name]
	return ok
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (*Definition, bool) {
	d, ok := c.definitions[name]
	return d, ok
}

// Names returns the canonical names of all definitions, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.definitions))
	for name := range c.definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (c *Catalog) function(name string) (*function, bool) {
	f, ok := c.functions[name]
	return f, ok
}

func (c *Catalog) methodParams(key string) []Param {
	return c.methods[key]
}

// MethodKey joins a type name and a method name into the key used for
// argument overrides and type-level functions.
func MethodKey(typeName, method string) string {
	return typeName + "::" + method
}

var anonymousFunc = regexp.MustCompile(`\.func\d+|-fm$`)

// FuncName returns the runtime name of a named function, or "" for closures,
// method values and non-functions.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}

	name := rf.Name()
	if anonymousFunc.MatchString(name) {
		return ""
	}

	return name
}
