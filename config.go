package plinth

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/multierr"
)

// DefaultVersion is reported when the configuration carries no version.
const DefaultVersion = "0.0.0"

// Config is the declarative description a container is built from.
type Config struct {
	// Main identifies the host entry point that owns the container. Required.
	Main string `yaml:"main_file" json:"main_file"`

	// Version is the reported version, DefaultVersion when empty.
	Version string `yaml:"version" json:"version"`

	// Hooks maps event names to the number of arguments the dispatcher
	// passes to callbacks. Merged over DefaultHooks.
	Hooks map[string]int `yaml:"hooks" json:"hooks"`

	// Bindings maps aliases to canonical definition names.
	Bindings map[string]string `yaml:"bindings" json:"bindings"`

	// Modules maps event -> priority -> module references. A reference is a
	// callable (func value or Method), a catalog function name, an
	// identifier, or "identifier@Method".
	//
	// Identifiers are resolved when New binds the modules, so their
	// definitions must be in the catalog before New. A reference that does
	// not resolve then is skipped, and its identifier stays unresolved for
	// the life of the container.
	Modules map[string]map[int][]any `yaml:"modules" json:"modules"`

	// Arguments maps canonical names, aliases, or "Type::method" keys to
	// argument overrides: Args, []any, map[string]any, or a Producer.
	Arguments map[string]any `yaml:"arguments" json:"arguments"`
}

// DefaultHooks returns the event arities every container knows about.
func DefaultHooks() map[string]int {
	return map[string]int{
		"admin_init": 0,
		"init":       0,
	}
}

// withDefaults returns a copy of cfg with defaults filled in.
func (cfg Config) withDefaults() Config {
	out := cfg

	if out.Version == "" {
		out.Version = DefaultVersion
	}

	hooks := DefaultHooks()
	for event, arity := range cfg.Hooks {
		hooks[event] = arity
	}
	out.Hooks = hooks

	return out
}

// Validate reports every problem with the configuration at once.
func (cfg Config) Validate() error {
	var err error

	if cfg.Main == "" {
		err = multierr.Append(err, NewConfigurationError("main_file", "is required"))
	}

	for event, arity := range cfg.Hooks {
		if arity < 0 {
			err = multierr.Append(err, NewConfigurationError(event, fmt.Sprintf("negative hook arity %d", arity)))
		}
	}

	for _, alias := range sortedKeys(cfg.Bindings) {
		if alias == "" || cfg.Bindings[alias] == "" {
			err = multierr.Append(err, NewConfigurationError(alias, "binding needs an alias and a target"))
		}
	}

	for _, key := range sortedKeys(cfg.Arguments) {
		if _, oErr := toOverride(key, cfg.Arguments[key]); oErr != nil {
			err = multierr.Append(err, oErr)
		}
	}

	for _, event := range sortedKeys(cfg.Modules) {
		for priority, refs := range cfg.Modules[event] {
			for _, ref := range refs {
				if !isModuleRef(ref) {
					err = multierr.Append(err, NewConfigurationError(
						fmt.Sprintf("%s[%d]", event, priority),
						fmt.Sprintf("unsupported module reference %T", ref)))
				}
			}
		}
	}

	return err
}

// isModuleRef reports whether ref has a shape the hook binder understands.
func isModuleRef(ref any) bool {
	switch v := ref.(type) {
	case string:
		return v != ""
	case Method:
		return v.Name != ""
	case nil:
		return false
	default:
		return reflect.TypeOf(ref).Kind() == reflect.Func
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
