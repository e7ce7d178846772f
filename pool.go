package campuskit

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// RendererPool manages Renderers for parallel exports.
// Each renderer owns its browser. Renderers are created lazily on first
// acquire to avoid startup delay.
type RendererPool struct {
	size      int
	opts      []Option
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
	done      chan struct{}
}

// NewRendererPool creates a pool with capacity for n Renderers, each built
// with opts.
func NewRendererPool(n int, opts ...Option) *RendererPool {
	if n < 1 {
		n = 1
	}

	return &RendererPool{
		size:      n,
		opts:      opts,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
		done:      make(chan struct{}),
	}
}

// Acquire gets a renderer from the pool, creating one if capacity remains.
// Blocks until a renderer is released, ctx is done, or the pool is closed.
// A closed pool never hands out a renderer.
func (p *RendererPool) Acquire(ctx context.Context) (*Renderer, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	select {
	case r := <-p.sem:
		p.mu.Unlock()
		return r, nil
	default:
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock
		r, err := NewRenderer(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = r.Close()
			return nil, ErrPoolClosed
		}
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()

		return r, nil
	}
	p.mu.Unlock()

	select {
	case r := <-p.sem:
		return p.checkOpen(r)
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// checkOpen returns r unless the pool was closed while the caller waited.
func (p *RendererPool) checkOpen(r *Renderer) (*Renderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	return r, nil
}

// Release returns a renderer to the pool.
func (p *RendererPool) Release(r *Renderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	// sem has capacity for every renderer, so this never blocks.
	p.sem <- r
}

// Close releases all browser resources.
// Returns an aggregated error if several renderers fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// An explicit worker count wins; otherwise GOMAXPROCS/2 clamped to
// [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
