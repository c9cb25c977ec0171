package pool

import (
	"context"
	"sync"
)

// Factory spawns one new Adapter backing a freshly started server. It is
// supplied by the caller (the server package knows how to bind a listener;
// the pool only knows how to bound and reuse what the factory hands back).
type Factory func() (Adapter, error)

// Pool is a bounded, blocking set of ready handles. It follows §4.6: a
// handle is taken from the free list if one exists, else a new one is
// spawned while under capacity, else the caller blocks until one is
// returned. The pool never shrinks once grown.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	cap     int
	alive   int
	free    []*Handle
	factory Factory
}

// New builds a pool capped at capacity, using factory to spawn new
// handles on demand. capacity <= 0 is treated as 1.
func New(capacity int, factory Factory) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	p := &Pool{cap: capacity, factory: factory}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Take returns a ready handle, spawning one if capacity allows, else
// blocking until one is released. Free handles are handed out in the order
// they were released. ctx is checked before each wait, so a caller already
// blocked sees cancellation only once a release wakes it; a handle already
// being spawned always completes.
func (p *Pool) Take(ctx context.Context) (*Handle, error) {
	p.mu.Lock()
	for {
		if len(p.free) > 0 {
			h := p.free[0]
			p.free = p.free[1:]
			p.mu.Unlock()
			return h, nil
		}
		if p.alive < p.cap {
			p.alive++
			p.mu.Unlock()
			adapter, err := p.factory()
			if err != nil {
				p.mu.Lock()
				p.alive--
				p.mu.Unlock()
				return nil, err
			}
			return &Handle{Adapter: adapter, pool: p}, nil
		}
		if ctx != nil && ctx.Err() != nil {
			p.mu.Unlock()
			return nil, ctx.Err()
		}
		p.cond.Wait()
	}
}

// release resets h's adapter and returns it to the free list. Reset errors
// are swallowed: a handle that fails to reset is still returned rather
// than leaked, since the next borrower will call reset operations of its
// own before trusting prior state.
func (p *Pool) release(h *Handle) {
	_ = h.Adapter.Reset(context.Background())

	p.mu.Lock()
	p.free = append(p.free, h)
	p.mu.Unlock()
	p.cond.Signal()
}
