// Package binding specializes the polling engine for each fleet
// resource: a fetch closed over the resource identity plus the interval
// and enable policy suited to how fast that resource changes.
package binding

import (
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/repository"
	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"go.uber.org/zap"
)

// Factory builds sessions for every fleet resource.
type Factory struct {
	client    repository.IFleetClient
	logger    *logger.CanonicalLogger
	resume    poll.ResumePolicy
	logLimit  int
	overrides map[string]config.FeedOverride
	registry  *poll.Registry
	opts      []poll.Option
}

// NewFactory creates a binding factory. Extra options (clock, visibility
// signal) are applied to every session it builds.
func NewFactory(cfg *config.DashboardConfig, client repository.IFleetClient, log *logger.CanonicalLogger, opts ...poll.Option) *Factory {
	if log == nil {
		log = logger.NewNop()
	}
	f := &Factory{
		client:    client,
		logger:    log,
		resume:    cfg.Resume,
		logLimit:  cfg.LogLimit,
		overrides: cfg.Feeds,
		opts:      opts,
	}
	if f.logLimit <= 0 {
		f.logLimit = DefaultLogLimit
	}
	if cfg.CoalesceFeeds {
		f.registry = poll.NewRegistry()
	}
	return f
}

// Registry returns the registry shared node-scoped sessions live in, or
// nil when coalescing is off.
func (f *Factory) Registry() *poll.Registry {
	return f.registry
}

// policy resolves the effective config for feed. valid is false when the
// bound identity cannot be fetched (node id 0), which disables the
// session regardless of overrides.
func (f *Factory) policy(feed string, interval time.Duration, enabled, valid bool) poll.Config {
	cfg := poll.Config{Interval: interval, Enabled: enabled, Resume: f.resume}
	if o, ok := f.overrides[feed]; ok {
		if o.Interval > 0 {
			cfg.Interval = o.Interval
		}
		if o.Enabled != nil {
			cfg.Enabled = cfg.Enabled && *o.Enabled
		}
	}
	cfg.Enabled = cfg.Enabled && valid
	return cfg
}

func (f *Factory) onError(what string, log *logger.CanonicalLogger) func(error) {
	return func(err error) {
		e := apierror.From(err)
		log.Error("failed to fetch "+what,
			zap.Int(logger.FieldStatus, e.Status),
			zap.String("kind", string(e.Kind)),
			zap.Error(err),
		)
	}
}

func build[T any](f *Factory, feed, what string, cfg poll.Config, log *logger.CanonicalLogger, fetch poll.FetchFunc[T], opts []poll.Option) *poll.Session[T] {
	all := []poll.Option{
		poll.WithConfig(cfg),
		poll.WithName(feed),
		poll.WithLogger(log),
		poll.WithOnError(f.onError(what, log.WithResource(feed))),
	}
	all = append(all, f.opts...)
	all = append(all, opts...)
	return poll.New(fetch, all...)
}

// Lease is one owner's hold on a session: its own enabled flag plus the
// release of its reference.
type Lease interface {
	Enabled() bool
	SetEnabled(enabled bool)
	Release()
}

// ownLease is the lease of a session nobody else holds.
type ownLease[T any] struct {
	s *poll.Session[T]
}

func (l ownLease[T]) Enabled() bool { return l.s.Enabled() }

func (l ownLease[T]) SetEnabled(enabled bool) { l.s.SetEnabled(enabled) }

func (l ownLease[T]) Release() { l.s.Close() }

// attach starts a session for one owner. With a registry, owners of the
// same key share one session; each keeps its own enabled flag and the
// release drops a reference instead of closing it outright.
func attach[T any](f *Factory, key string, create func() *poll.Session[T]) (*poll.Session[T], Lease) {
	if f.registry != nil {
		s, lease, err := poll.Acquire(f.registry, key, create)
		if err == nil {
			return s, lease
		}
		f.logger.Warn("falling back to unshared session", zap.String("key", key), zap.Error(err))
	}
	s := create()
	s.Start()
	return s, ownLease[T]{s}
}
