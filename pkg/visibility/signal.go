// Package visibility holds the process-wide flag telling pollers whether
// the surface they feed is in the foreground.
//
// A Signal is written only by its environment (a Source, or a direct Set
// from the host) and read by every polling session. Sessions never write
// to it.
package visibility

import (
	"context"
	"sync"

	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// Source feeds visibility changes into a Signal. Open is called when the
// signal gains its first subscriber and Close when it loses its last.
type Source interface {
	Open(ctx context.Context, set func(visible bool)) error
	Close() error
}

// Signal is a shared observable boolean. It starts visible.
type Signal struct {
	mu      sync.Mutex
	visible bool
	subs    map[uint64]func(bool)
	nextID  uint64
	source  Source
	cancel  context.CancelFunc
	logger  *logger.CanonicalLogger
}

// NewSignal creates a visible Signal. source may be nil, in which case
// only Set changes the value.
func NewSignal(source Source, log *logger.CanonicalLogger) *Signal {
	if log == nil {
		log = logger.NewNop()
	}
	return &Signal{
		visible: true,
		subs:    make(map[uint64]func(bool)),
		source:  source,
		logger:  log,
	}
}

var (
	defaultMu     sync.RWMutex
	defaultSignal = NewSignal(nil, nil)
)

// Default returns the process-wide Signal.
func Default() *Signal {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSignal
}

// SetDefault replaces the process-wide Signal. Call it during startup,
// before any session subscribes.
func SetDefault(s *Signal) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSignal = s
}

// Visible reports the current value.
func (s *Signal) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Set records a visibility change and notifies subscribers. Setting the
// current value again is a no-op.
func (s *Signal) Set(visible bool) {
	s.mu.Lock()
	if s.visible == visible {
		s.mu.Unlock()
		return
	}
	s.visible = visible
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("visibility changed", logger.Visible(visible), zap.Int("subscribers", len(fns)))
	for _, fn := range fns {
		fn(visible)
	}
}

// Subscribe registers fn for future changes and returns a function that
// removes it. The first subscription opens the Source; removing the last
// one closes it.
func (s *Signal) Subscribe(fn func(visible bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	first := len(s.subs) == 1
	s.mu.Unlock()

	if first {
		s.open()
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Signal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Signal) unsubscribe(id uint64) {
	s.mu.Lock()
	delete(s.subs, id)
	last := len(s.subs) == 0
	s.mu.Unlock()

	if last {
		s.close()
	}
}

func (s *Signal) open() {
	if s.source == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.source.Open(ctx, s.Set); err != nil {
		cancel()
		s.logger.WithError(err).Error("failed to open visibility source")
		return
	}
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	s.logger.Info("visibility source opened")
}

func (s *Signal) close() {
	if s.source == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	if err := s.source.Close(); err != nil {
		s.logger.WithError(err).Error("failed to close visibility source")
		return
	}
	s.logger.Info("visibility source closed")
}
