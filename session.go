package distill

import "context"

// Session is a handle to one checked-out rendering session. A handle is
// bound to exactly one caller and becomes invalid once released.
type Session interface {
	// Render instructs the session to load the target and waits for a
	// settled DOM (network/script quiescence) before returning the
	// rendered HTML. A target starting with http:// or https:// is
	// navigated to; anything else is treated as a raw HTML document.
	//
	// Returns ERENDERTIMEOUT if the page does not settle before the
	// context deadline, and EINVALID if the handle was already released.
	Render(ctx context.Context, target string) (html string, err error)
}

// SessionPool manages a bounded set of reusable headless rendering sessions.
// Capacity is fixed at construction; waiting callers are served strictly in
// arrival order.
type SessionPool interface {
	// Acquire blocks until an idle session is available or a new session
	// can be started under capacity. Returns EPOOLTIMEOUT if the context
	// deadline expires first.
	Acquire(ctx context.Context) (Session, error)

	// Release returns the session behind the handle to the pool. Unhealthy
	// sessions are terminated; capacity freed this way is reused lazily on
	// next demand. Releasing a handle twice returns EINVALID.
	Release(s Session, healthy bool) error

	// Stats reports a snapshot of pool occupancy.
	Stats() PoolStats

	// Close terminates all sessions and fails pending waiters.
	// Close is safe to call multiple times.
	Close() error
}

// PoolStats is a point-in-time snapshot of SessionPool occupancy.
type PoolStats struct {
	// Capacity is the configured maximum number of live sessions.
	Capacity int `json:"capacity"`

	// Live is the number of sessions currently in existence
	// (idle plus checked out).
	Live int `json:"live"`

	// Idle is the number of sessions waiting to be checked out.
	Idle int `json:"idle"`

	// Waiting is the number of callers blocked in Acquire.
	Waiting int `json:"waiting"`
}
