package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
	"github.com/Alwanly/fleet-dashboard/pkg/clock"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot is the consumer view of a session.
type Snapshot[T any] struct {
	// Data is the last successful value, nil until one arrives. A failed
	// cycle never clears it.
	Data *T
	// Loading is true from Start or Refetch until that cycle settles.
	Loading bool
	// Err is the failure of the most recent cycle, nil after a success.
	Err *apierror.Error
	// UpdatedAt is when Data was last replaced.
	UpdatedAt time.Time
	// Fetches counts settled cycles applied to this session.
	Fetches int
}

// Session repeatedly fetches one resource. Each cycle is
// fetch -> settle -> arm a timer for the interval -> fetch again, so at
// most one fetch is in flight and slow responses stretch the period
// instead of overlapping. Re-arming is skipped while the session is
// disabled or the visibility signal is off.
type Session[T any] struct {
	id     string
	name   string
	fetch  FetchFunc[T]
	clock  clock.Clock
	signal *visibility.Signal
	logger *logger.CanonicalLogger

	mu          sync.Mutex
	interval    time.Duration
	enabled     bool
	resume      ResumePolicy
	onError     func(error)
	active      bool
	closed      bool
	tok         *token
	timer       clock.Timer
	timerGen    uint64
	unsubscribe func()

	data      *T
	loading   bool
	err       *apierror.Error
	updatedAt time.Time
	fetches   int
}

// New creates an idle session. Call Start to begin polling.
func New[T any](fetch FetchFunc[T], opts ...Option) *Session[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.config.Interval <= 0 {
		o.config.Interval = DefaultConfig().Interval
	}
	if !o.config.Resume.Valid() {
		o.config.Resume = ResumeRefetch
	}
	if o.signal == nil {
		o.signal = visibility.Default()
	}

	id := uuid.NewString()
	log := o.logger.WithSessionID(id)
	if o.name != "" {
		log = log.WithResource(o.name)
	}

	return &Session[T]{
		id:       id,
		name:     o.name,
		fetch:    fetch,
		clock:    o.clock,
		signal:   o.signal,
		logger:   log,
		interval: o.config.Interval,
		enabled:  o.config.Enabled,
		resume:   o.config.Resume,
		onError:  o.onError,
		tok:      newToken(),
	}
}

func (s *Session[T]) ID() string {
	return s.id
}

func (s *Session[T]) Name() string {
	return s.name
}

func (s *Session[T]) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Active reports whether Start was called and the session has not been
// stopped since.
func (s *Session[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session[T]) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Snapshot returns the current state.
func (s *Session[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Data:      s.data,
		Loading:   s.loading,
		Err:       s.err,
		UpdatedAt: s.updatedAt,
		Fetches:   s.fetches,
	}
}

// SetOnError replaces the failure handler. The handler in place when a
// cycle fails is the one invoked, regardless of when that cycle started.
func (s *Session[T]) SetOnError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// Start activates the session. When enabled it fetches immediately and
// keeps re-arming; when disabled it waits for SetEnabled(true). Start on
// an active or closed session is a no-op.
func (s *Session[T]) Start() {
	s.mu.Lock()
	if s.closed || s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	tok := s.tok
	s.mu.Unlock()

	// Subscribing may open the signal's source, which may call back into
	// onVisibility, so it happens without holding s.mu.
	unsubscribe := s.signal.Subscribe(s.onVisibility)

	s.mu.Lock()
	if !s.active || s.tok != tok {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.unsubscribe = unsubscribe
	run := s.enabled && tok.flight == nil
	if run {
		s.loading = true
	}
	s.mu.Unlock()

	s.logger.Info("polling session started", zap.Duration(logger.FieldInterval, s.interval), logger.Enabled(run))
	if run {
		go s.cycle(tok)
	}
}

// Stop disarms the timer and invalidates the current token: a fetch
// still in flight is cancelled and its result discarded. The session can
// be started again.
func (s *Session[T]) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.disarmLocked()
	s.tok.invalidate()
	s.tok = newToken()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.logger.Info("polling session stopped")
}

// Close stops the session for good. Nothing settling afterwards, from a
// scheduled cycle or a Refetch, changes its state.
func (s *Session[T]) Close() {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tok.invalidate()
}

// SetEnabled toggles the session's own gate. Disabling disarms the
// timer but lets an in-flight fetch settle; enabling an active session
// fetches immediately.
func (s *Session[T]) SetEnabled(enabled bool) {
	s.mu.Lock()
	if s.closed || s.enabled == enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = enabled
	tok := s.tok
	if !enabled {
		s.disarmLocked()
		s.mu.Unlock()
		s.logger.Debug("polling session disabled")
		return
	}
	run := s.active && tok.flight == nil
	if run {
		s.loading = true
	}
	s.mu.Unlock()

	s.logger.Debug("polling session enabled")
	if run {
		go s.cycle(tok)
	}
}

// Refetch fetches now, outside the schedule, and blocks until the fetch
// settles or ctx ends. Loading is set before it returns control to the
// fetch. A pending timer is cancelled, so the next scheduled cycle comes
// one interval after this fetch settles. If a fetch is already in
// flight, Refetch waits for that one instead of starting a second.
//
// Fetch failures are recorded in the session state, not returned.
func (s *Session[T]) Refetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	tok := s.tok
	s.loading = true
	f := tok.flight
	if f == nil {
		s.disarmLocked()
		f = &flight{done: make(chan struct{})}
		tok.flight = f
		go s.run(tok, f)
	}
	s.mu.Unlock()

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cycle starts a fetch unless one is already running under tok.
func (s *Session[T]) cycle(tok *token) {
	s.mu.Lock()
	if !tok.alive() || tok.flight != nil {
		s.mu.Unlock()
		return
	}
	f := &flight{done: make(chan struct{})}
	tok.flight = f
	s.mu.Unlock()

	s.run(tok, f)
}

func (s *Session[T]) run(tok *token, f *flight) {
	started := s.clock.Now()
	value, err := s.invoke(tok.ctx)

	s.mu.Lock()
	tok.flight = nil
	if !tok.alive() {
		close(f.done)
		s.mu.Unlock()
		s.logger.Debug("discarding result of stopped session")
		return
	}

	s.fetches++
	s.loading = false
	var (
		failure *apierror.Error
		handler func(error)
	)
	if err != nil {
		failure = apierror.From(err)
		s.err = failure
		handler = s.onError
	} else {
		s.data = &value
		s.err = nil
		s.updatedAt = s.clock.Now()
	}
	fetches := s.fetches
	s.scheduleLocked(tok)
	close(f.done)
	s.mu.Unlock()

	s.logger.Debug("fetch settled",
		zap.Int(logger.FieldFetchCount, fetches),
		zap.Bool(logger.FieldSuccess, err == nil),
		zap.Duration("duration", s.clock.Now().Sub(started)),
	)

	if failure != nil {
		s.notify(handler, failure)
	}
}

func (s *Session[T]) invoke(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return s.fetch(ctx)
}

func (s *Session[T]) notify(handler func(error), err *apierror.Error) {
	if handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("failure handler panicked", zap.Any("panic", r))
		}
	}()
	handler(err)
}

// scheduleLocked arms the next cycle if the session is active, enabled
// and visible. Any previously armed timer is cleared first.
func (s *Session[T]) scheduleLocked(tok *token) {
	s.disarmLocked()
	if !s.active || !s.enabled || !s.signal.Visible() {
		return
	}
	s.armLocked(tok)
}

func (s *Session[T]) armLocked(tok *token) {
	s.disarmLocked()
	s.timerGen++
	gen := s.timerGen
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(tok, gen) })
}

func (s *Session[T]) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session[T]) fire(tok *token, gen uint64) {
	s.mu.Lock()
	if s.timer == nil || s.timerGen != gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.cycle(tok)
}

// onVisibility is the signal subscriber. Hiding disarms the timer;
// an in-flight fetch still settles once and then stays dormant.
// Showing applies the resume policy to a dormant session.
func (s *Session[T]) onVisibility(bool) {
	visible := s.signal.Visible()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	tok := s.tok

	if !visible {
		s.disarmLocked()
		s.mu.Unlock()
		s.logger.Debug("polling paused", logger.Visible(false))
		return
	}

	if !s.enabled || tok.flight != nil || s.timer != nil {
		s.mu.Unlock()
		return
	}

	switch s.resume {
	case ResumeSchedule:
		s.armLocked(tok)
		s.mu.Unlock()
		s.logger.Debug("polling resumed on schedule", logger.Visible(true))
	default:
		s.mu.Unlock()
		s.logger.Debug("polling resumed with refetch", logger.Visible(true))
		go s.cycle(tok)
	}
}
