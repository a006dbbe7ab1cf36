package plinth

import "go.uber.org/zap"

// Middleware provides hooks for intercepting component resolution.
// Middleware can be used for logging, tracing, testing, etc.
type Middleware interface {
	// BeforeGet is called before resolving an identifier.
	// Return error to abort resolution.
	BeforeGet(id string) error

	// AfterGet is called after resolving an identifier.
	// Called even if resolution failed (instance and err may both be set).
	AfterGet(id string, instance any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

// beforeGet calls BeforeGet on all middleware.
func (m *middlewareChain) beforeGet(id string) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeGet(id); err != nil {
			return err
		}
	}
	return nil
}

// afterGet calls AfterGet on all middleware.
func (m *middlewareChain) afterGet(id string, instance any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterGet(id, instance, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeGetFunc func(id string) error
	AfterGetFunc  func(id string, instance any, err error) error
}

// BeforeGet implements Middleware.
func (f *FuncMiddleware) BeforeGet(id string) error {
	if f.BeforeGetFunc != nil {
		return f.BeforeGetFunc(id)
	}
	return nil
}

// AfterGet implements Middleware.
func (f *FuncMiddleware) AfterGet(id string, instance any, err error) error {
	if f.AfterGetFunc != nil {
		return f.AfterGetFunc(id, instance, err)
	}
	return nil
}

// LoggingMiddleware logs every resolution at debug level and failures at warn.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return &FuncMiddleware{
		AfterGetFunc: func(id string, instance any, err error) error {
			if err != nil {
				logger.Warn("component resolution failed",
					zap.String("id", id),
					zap.Error(err),
				)
				return nil
			}

			logger.Debug("component resolved",
				zap.String("id", id),
				zap.String("type", TypeNameOf(instance)),
			)
			return nil
		},
	}
}
