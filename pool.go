package plinth

import "context"

// Pool maps arbitrary keys to containers. It is an explicit handle owned by
// the host and passed through context; the container never consults it.
type Pool struct {
	items map[string]*Container
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{items: make(map[string]*Container)}
}

// Add stores c under key, replacing any previous entry.
func (p *Pool) Add(key string, c *Container) {
	p.items[key] = c
}

// Get returns the container stored under key.
func (p *Pool) Get(key string) (*Container, bool) {
	c, ok := p.items[key]
	return c, ok
}

// Remove deletes key from the pool.
func (p *Pool) Remove(key string) {
	delete(p.items, key)
}

type poolKey struct{}

// WithPool returns a context carrying p.
func WithPool(ctx context.Context, p *Pool) context.Context {
	return context.WithValue(ctx, poolKey{}, p)
}

// PoolFrom returns the pool carried by ctx, if any.
func PoolFrom(ctx context.Context) (*Pool, bool) {
	p, ok := ctx.Value(poolKey{}).(*Pool)
	return p, ok && p != nil
}
