// Package plinth is a small dependency-injection core for plugin-style hosts.
//
// A Catalog describes what can be built: constructors keyed by the
// package-qualified name of the type they return, plus named functions and
// per-method parameter metadata. A Container resolves identifiers and
// aliases to those canonical names, builds each component once and caches
// it, and fills constructor parameters from argument overrides or by
// recursively resolving component-typed parameters.
//
// Module references declared per event and priority are bound to the host's
// event Dispatcher at construction time. When an event fires, each module is
// constructed (or its method invoked) with the event's arguments; failures
// are logged and never stop sibling modules.
//
//	catalog := plinth.NewCatalog()
//	catalog.MustDefine(NewStore)
//	catalog.MustDefine(NewUsers)
//
//	c, err := plinth.New(plinth.Config{Main: "cmd/app/main.go"}, plinth.WithCatalog(catalog))
//	if err != nil {
//	    return err
//	}
//
//	users, err := plinth.GetType[*Users](c)
package plinth
