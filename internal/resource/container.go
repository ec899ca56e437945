// Package resource implements the per-screen asynchronous state holder
// over {Idle, Loading, Data, Error}. Each container owns its snapshot
// exclusively; there is no cross-container invalidation beyond explicit
// Invalidate/Refresh calls by the code that performed a mutation.
package resource

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/starford/ansuz/internal/failure"
)

// State is the lifecycle phase of a Container.
type State int

const (
	Idle State = iota
	Loading
	Data
	Error
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Data:
		return "data"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Container holds the latest fetch result for one logical query.
//
// Concurrent Load/Refresh calls for the same container share a single
// in-flight request via singleflight. Clear and Supersede bump an
// internal generation counter, so a result arriving for a superseded
// request is discarded rather than applied.
//
// Policy: a failed refresh moves the container to Error but keeps the
// previous snapshot readable through Value until the next successful
// load or an explicit Clear.
type Container[T any] struct {
	fetch func(context.Context) (T, error)

	group singleflight.Group

	mu       sync.Mutex
	state    State
	value    T
	hasValue bool
	fail     *failure.Failure
	stale    bool
	gen      uint64
}

// NewContainer creates an Idle container around a fetch function,
// typically a bound repository method.
func NewContainer[T any](fetch func(context.Context) (T, error)) *Container[T] {
	return &Container[T]{fetch: fetch}
}

// Load fetches the resource unless a fresh snapshot is already held.
// A Load issued while another Load/Refresh is in flight joins it
// instead of starting a duplicate request.
func (c *Container[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Data && !c.stale {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh re-enters Loading and fetches, joining any in-flight request.
func (c *Container[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.state = Loading
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do("fetch", func() (any, error) {
		return c.fetch(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		// Superseded by Clear or Supersede; the result no longer
		// belongs to this container's current lifecycle and must be
		// discarded.
		return nil
	}

	if err != nil {
		c.fail = failure.Normalize(err, "failed to load resource")
		c.state = Error
		return c.fail
	}

	c.value = v.(T)
	c.hasValue = true
	c.fail = nil
	c.stale = false
	c.state = Data
	return nil
}

// Supersede invalidates any in-flight fetch without dropping the
// current snapshot: the generation advances so a result arriving for a
// prior Refresh is discarded, and the singleflight slot is forgotten so
// the next Refresh starts a fresh request instead of joining the old
// one. Callers use this when the logical query behind the fetch has
// changed and the in-flight answer no longer belongs to it.
func (c *Container[T]) Supersede() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	c.group.Forget("fetch")
}

// Clear returns the container to Idle without a network call and
// discards the snapshot. Any in-flight result is suppressed.
func (c *Container[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.gen++
	c.state = Idle
	c.value = zero
	c.hasValue = false
	c.fail = nil
	c.stale = false
}

// Invalidate marks the snapshot stale without fetching. The next Load
// will hit the network; Value keeps returning the stale snapshot until
// then.
func (c *Container[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}

// State reports the current lifecycle phase.
func (c *Container[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Value returns the last successful snapshot, if any. It stays
// available while the container is Loading or Error.
func (c *Container[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.hasValue
}

// Err returns the failure of the last fetch, or nil.
func (c *Container[T]) Err() *failure.Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fail
}

// Stale reports whether the snapshot has been invalidated by a mutation.
func (c *Container[T]) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}
