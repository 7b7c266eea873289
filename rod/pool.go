package rod

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/distill"
)

// Ensure Pool implements distill.SessionPool at compile time.
var _ distill.SessionPool = (*Pool)(nil)

// Pool is a bounded pool of headless Chrome sessions. Sessions launch
// lazily on first demand, healthy sessions are reused, and unhealthy ones
// are terminated with their slot reclaimed on the next acquire. Waiters
// are served strictly in arrival order.
//
// Pool is safe for concurrent use.
type Pool struct {
	capacity int
	launch   launchFunc

	mu      sync.Mutex
	idle    []renderer
	live    int
	waiters []chan renderer // each cap 1; a nil delivery grants permission to launch
	closed  bool
	done    chan struct{}
}

// NewPool creates a session pool backed by headless Chrome. No browser is
// launched until the first Acquire. Close must be called to release
// browser processes.
func NewPool(capacity int) *Pool {
	return newPool(capacity, launchBrowserSession)
}

func newPool(capacity int, launch launchFunc) *Pool {
	return &Pool{
		capacity: capacity,
		launch:   launch,
		done:     make(chan struct{}),
	}
}

// handle is the Session given to one acquirer. It becomes invalid after
// Release.
type handle struct {
	pool     *Pool
	r        renderer
	released atomic.Bool
}

// Ensure handle implements distill.Session at compile time.
var _ distill.Session = (*handle)(nil)

// Render delegates to the underlying browser session.
func (h *handle) Render(ctx context.Context, target string) (string, error) {
	if h.released.Load() {
		return "", distill.Errorf(distill.EINVALID, "session already released")
	}
	return h.r.render(ctx, target)
}

// Acquire blocks until an idle session is available or a new one can be
// launched under capacity. Returns EPOOLTIMEOUT when the context expires
// first.
func (p *Pool) Acquire(ctx context.Context) (distill.Session, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, distill.Errorf(distill.EINTERNAL, "session pool is closed")
	}

	// Earlier waiters go first; only jump the queue when it is empty.
	if len(p.waiters) == 0 {
		if len(p.idle) > 0 {
			r := p.idle[0]
			p.idle = p.idle[1:]
			p.mu.Unlock()
			return &handle{pool: p, r: r}, nil
		}
		if p.live < p.capacity {
			p.live++
			p.mu.Unlock()
			return p.startSession()
		}
	}

	w := make(chan renderer, 1)
	p.waiters = append(p.waiters, w)
	p.mu.Unlock()

	select {
	case r := <-w:
		if r == nil {
			return p.startSession()
		}
		return &handle{pool: p, r: r}, nil

	case <-ctx.Done():
		p.mu.Lock()
		for i, cand := range p.waiters {
			if cand == w {
				p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
				p.mu.Unlock()
				return nil, distill.Errorf(distill.EPOOLTIMEOUT, "no session available before deadline")
			}
		}
		p.mu.Unlock()

		// We were already dequeued: either a delivery landed in the
		// channel before we observed the queue, or Close dropped the
		// queue without sending. Drain without blocking and hand any
		// delivery back for the next caller.
		p.drainDelivery(w)
		return nil, distill.Errorf(distill.EPOOLTIMEOUT, "no session available before deadline")

	case <-p.done:
		// A delivery may have raced the close.
		p.drainDelivery(w)
		return nil, distill.Errorf(distill.EINTERNAL, "session pool is closed")
	}
}

// Release returns the session behind the handle to the pool. Unhealthy
// sessions are terminated and their capacity freed for lazy relaunch.
// Releasing a handle twice returns EINVALID.
func (p *Pool) Release(s distill.Session, healthy bool) error {
	h, ok := s.(*handle)
	if !ok || h.pool != p {
		return distill.Errorf(distill.EINVALID, "session does not belong to this pool")
	}
	if !h.released.CompareAndSwap(false, true) {
		return distill.Errorf(distill.EINVALID, "session already released")
	}

	if healthy {
		p.putBack(h.r)
		return nil
	}

	_ = h.r.close()
	p.mu.Lock()
	p.live--
	if !p.closed {
		p.dispatchLocked()
	}
	p.mu.Unlock()
	return nil
}

// Stats reports a snapshot of pool occupancy.
func (p *Pool) Stats() distill.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return distill.PoolStats{
		Capacity: p.capacity,
		Live:     p.live,
		Idle:     len(p.idle),
		Waiting:  len(p.waiters),
	}
}

// Close terminates all idle sessions and fails pending waiters. Sessions
// still checked out are terminated when released. Close is safe to call
// multiple times.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	idle := p.idle
	p.idle = nil
	p.live -= len(idle)
	p.waiters = nil
	p.mu.Unlock()

	var firstErr error
	for _, r := range idle {
		if err := r.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// startSession launches a renderer for a caller that holds a capacity
// slot. On failure the slot is returned and offered to the next waiter.
func (p *Pool) startSession() (distill.Session, error) {
	r, err := p.launch()
	if err != nil {
		p.mu.Lock()
		p.live--
		p.dispatchLocked()
		p.mu.Unlock()
		return nil, distill.Errorf(distill.EINTERNAL, "launching session: %v", err)
	}
	return &handle{pool: p, r: r}, nil
}

// drainDelivery recovers a delivery sent to a waiter that gave up.
// Sends happen under the lock that dequeues the waiter, so once the
// waiter is gone from the queue any delivery is already buffered; a
// waiter dropped by Close never receives one. Never blocks.
func (p *Pool) drainDelivery(w chan renderer) {
	select {
	case r := <-w:
		if r != nil {
			p.putBack(r)
		} else {
			p.mu.Lock()
			p.live--
			if !p.closed {
				p.dispatchLocked()
			}
			p.mu.Unlock()
		}
	default:
	}
}

// putBack returns a healthy renderer to the pool, preferring the oldest
// waiter over the idle list.
func (p *Pool) putBack(r renderer) {
	p.mu.Lock()
	if p.closed {
		p.live--
		p.mu.Unlock()
		_ = r.close()
		return
	}
	p.idle = append(p.idle, r)
	p.dispatchLocked()
	p.mu.Unlock()
}

// dispatchLocked hands idle sessions or launch permissions to waiters in
// arrival order. Sends never block: waiter channels are buffered and a
// waiter is removed from the queue under the same lock that sends to it.
// Must be called with mu held.
func (p *Pool) dispatchLocked() {
	for len(p.waiters) > 0 {
		switch {
		case len(p.idle) > 0:
			w := p.waiters[0]
			p.waiters = p.waiters[1:]
			r := p.idle[0]
			p.idle = p.idle[1:]
			w <- r
		case p.live < p.capacity:
			w := p.waiters[0]
			p.waiters = p.waiters[1:]
			p.live++
			w <- nil
		default:
			return
		}
	}
}
