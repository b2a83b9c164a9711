package poll

import (
	"time"

	"github.com/Alwanly/fleet-dashboard/pkg/clock"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
)

type options struct {
	config  Config
	name    string
	onError func(error)
	clock   clock.Clock
	signal  *visibility.Signal
	logger  *logger.CanonicalLogger
}

// Option configures a Session.
type Option func(*options)

func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		clock:  clock.Real(),
		logger: logger.NewNop(),
	}
}

// WithConfig replaces the whole polling policy.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.config.Interval = d
	}
}

func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.config.Enabled = enabled
	}
}

func WithResume(p ResumePolicy) Option {
	return func(o *options) {
		o.config.Resume = p
	}
}

// WithName labels the session in logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithOnError sets the initial failure handler. See Session.SetOnError.
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithVisibility overrides the process-wide visibility signal.
func WithVisibility(s *visibility.Signal) Option {
	return func(o *options) {
		o.signal = s
	}
}

func WithLogger(l *logger.CanonicalLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}
