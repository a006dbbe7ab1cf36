package plinth

import "go.uber.org/zap"

// Option configures a container at construction.
type Option func(*Container)

// WithCatalog sets the definitions the container can construct.
func WithCatalog(catalog *Catalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// WithDispatcher sets the host event dispatcher module callbacks are
// registered with.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Container) {
		c.dispatcher = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithMiddleware adds middleware to the container.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Container) {
		for _, mw := range middleware {
			c.middleware.add(mw)
		}
	}
}
