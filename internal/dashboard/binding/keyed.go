package binding

import (
	"context"
	"sync"

	"github.com/Alwanly/fleet-dashboard/pkg/poll"
)

// Binder starts a session for key and returns it with the caller's lease
// on it.
type Binder[K comparable, T any] func(key K) (*poll.Session[T], Lease)

// Keyed holds the session for the current identity of a resource.
// Changing the identity tears the old session down and starts a fresh
// one; the old session is never mutated to point elsewhere.
type Keyed[K comparable, T any] struct {
	mu      sync.Mutex
	bind    Binder[K, T]
	key     K
	session *poll.Session[T]
	lease   Lease
}

func NewKeyed[K comparable, T any](bind Binder[K, T]) *Keyed[K, T] {
	return &Keyed[K, T]{bind: bind}
}

// Bind points k at key. Binding the current key again is a no-op.
func (k *Keyed[K, T]) Bind(key K) *poll.Session[T] {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.session != nil && k.key == key {
		return k.session
	}
	if k.lease != nil {
		k.lease.Release()
	}
	k.key = key
	k.session, k.lease = k.bind(key)
	return k.session
}

// Current returns the bound session and its key. ok is false when
// nothing is bound.
func (k *Keyed[K, T]) Current() (s *poll.Session[T], key K, ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.session, k.key, k.session != nil
}

// Enabled reports this holder's flag for the bound session. A shared
// session may still run for other holders while this one is off.
func (k *Keyed[K, T]) Enabled() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lease != nil && k.lease.Enabled()
}

// SetEnabled sets this holder's flag on the bound session.
func (k *Keyed[K, T]) SetEnabled(enabled bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.lease != nil {
		k.lease.SetEnabled(enabled)
	}
}

// Snapshot returns the bound session's state, or the zero snapshot.
func (k *Keyed[K, T]) Snapshot() poll.Snapshot[T] {
	s, _, ok := k.Current()
	if !ok {
		return poll.Snapshot[T]{}
	}
	return s.Snapshot()
}

func (k *Keyed[K, T]) Refetch(ctx context.Context) error {
	s, _, ok := k.Current()
	if !ok {
		return poll.ErrClosed
	}
	return s.Refetch(ctx)
}

// Release drops the bound session.
func (k *Keyed[K, T]) Release() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.lease != nil {
		k.lease.Release()
	}
	var zero K
	k.key = zero
	k.session = nil
	k.lease = nil
}
