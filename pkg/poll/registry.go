package poll

import (
	"fmt"
	"sync"
)

// Registry shares one session between every consumer of the same
// resource key, so N views of one node drive a single fetch cycle. A
// shared session starts on first Acquire and is closed on the last
// release.
//
// Each consumer holds a Lease with its own enabled flag. The shared
// session is enabled while at least one lease has it enabled, so one
// consumer switching a feed off never silences it for the others.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	nextID  uint64
}

type registryEntry struct {
	runner  Runner
	enable  func(bool)
	initial bool
	holders map[uint64]bool
}

func (e *registryEntry) wanted() bool {
	for _, on := range e.holders {
		if on {
			return true
		}
	}
	return false
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Len returns the number of live shared sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Acquire returns the session registered under key, creating and
// starting it with create when absent, plus the caller's lease on it.
// A new lease starts with the enabled state the session was created
// with. Acquiring an existing key with a different data type is an
// error.
func Acquire[T any](r *Registry, key string, create func() *Session[T]) (*Session[T], *Lease, error) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if ok {
		s, typed := e.runner.(*Session[T])
		if !typed {
			r.mu.Unlock()
			return nil, nil, fmt.Errorf("poll: key %q holds a %T", key, e.runner)
		}
		l := r.leaseLocked(key, e)
		e.enable(e.wanted())
		r.mu.Unlock()
		return s, l, nil
	}

	s := create()
	e = &registryEntry{
		runner:  s,
		enable:  s.SetEnabled,
		initial: s.Enabled(),
		holders: make(map[uint64]bool),
	}
	r.entries[key] = e
	l := r.leaseLocked(key, e)
	r.mu.Unlock()

	s.Start()
	return s, l, nil
}

func (r *Registry) leaseLocked(key string, e *registryEntry) *Lease {
	r.nextID++
	e.holders[r.nextID] = e.initial
	return &Lease{r: r, key: key, entry: e, id: r.nextID}
}

// Lease is one consumer's hold on a shared session.
type Lease struct {
	r     *Registry
	key   string
	entry *registryEntry
	id    uint64
	once  sync.Once
}

// Enabled reports this holder's own flag, not the shared session's.
func (l *Lease) Enabled() bool {
	l.r.mu.Lock()
	defer l.r.mu.Unlock()
	return l.entry.holders[l.id]
}

// SetEnabled records this holder's flag and enables the shared session
// only while some holder wants it. It has no effect after Release.
func (l *Lease) SetEnabled(enabled bool) {
	l.r.mu.Lock()
	defer l.r.mu.Unlock()

	if _, held := l.entry.holders[l.id]; !held {
		return
	}
	l.entry.holders[l.id] = enabled
	l.entry.enable(l.entry.wanted())
}

// Release drops this holder. The last release closes the session.
// Calling it more than once has no effect.
func (l *Lease) Release() {
	l.once.Do(func() {
		r, e := l.r, l.entry

		r.mu.Lock()
		delete(e.holders, l.id)
		last := len(e.holders) == 0
		if last {
			if r.entries[l.key] == e {
				delete(r.entries, l.key)
			}
		} else {
			e.enable(e.wanted())
		}
		r.mu.Unlock()

		if last {
			e.runner.Close()
		}
	})
}
