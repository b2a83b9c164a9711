package poll

import (
	"context"
	"errors"
)

// FetchFunc produces the latest value of a resource. Resource identity is
// captured by the closure; ctx is cancelled when the owning session is
// stopped.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// ErrClosed is returned by Refetch on a closed session.
var ErrClosed = errors.New("poll: session closed")

// Runner is the lifecycle surface shared by every Session regardless of
// its data type.
type Runner interface {
	Start()
	Stop()
	Close()
	Active() bool
}

// Poller starts and stops a set of named sessions together.
type Poller interface {
	// Start starts every registered session and stops them when ctx ends.
	Start(ctx context.Context) error
	// Stop stops every registered session.
	Stop() error
	// Register adds a session under a unique name.
	Register(name string, r Runner) error
}
