package poll

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// group implements the Poller interface
type group struct {
	logger  *logger.CanonicalLogger
	mu      sync.Mutex
	runners map[string]Runner
	stopCh  chan struct{}
}

// NewGroup creates an empty Poller.
func NewGroup(log *logger.CanonicalLogger) Poller {
	if log == nil {
		log = logger.NewNop()
	}
	return &group{
		logger:  log,
		runners: make(map[string]Runner),
	}
}

// Start starts every registered session and stops them all when ctx is
// done or Stop is called.
func (g *group) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.stopCh != nil {
		g.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	stopCh := make(chan struct{})
	g.stopCh = stopCh
	names := g.sortedNamesLocked()
	runners := make([]Runner, 0, len(names))
	for _, name := range names {
		runners = append(runners, g.runners[name])
	}
	g.mu.Unlock()

	for i, r := range runners {
		r.Start()
		g.logger.Info("started polling", logger.Resource(names[i]))
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = g.Stop()
		case <-stopCh:
		}
	}()
	return nil
}

// Stop stops every session concurrently and returns once all of them
// have stopped. A session blocked tearing down its fetch does not delay
// the others.
func (g *group) Stop() error {
	g.mu.Lock()
	if g.stopCh == nil {
		g.mu.Unlock()
		return nil
	}
	close(g.stopCh)
	g.stopCh = nil
	runners := make([]Runner, 0, len(g.runners))
	for _, r := range g.runners {
		runners = append(runners, r)
	}
	g.mu.Unlock()

	g.logger.Info("stopping poller", zap.Int("sessions", len(runners)))
	var eg errgroup.Group
	for _, r := range runners {
		r := r
		eg.Go(func() error {
			r.Stop()
			return nil
		})
	}
	return eg.Wait()
}

// Register adds a session. Registering while the group runs starts the
// session immediately.
func (g *group) Register(name string, r Runner) error {
	if name == "" || r == nil {
		return fmt.Errorf("invalid session registration")
	}

	g.mu.Lock()
	if _, exists := g.runners[name]; exists {
		g.mu.Unlock()
		return fmt.Errorf("session %q already registered", name)
	}
	g.runners[name] = r
	running := g.stopCh != nil
	g.mu.Unlock()

	g.logger.Debug("session registered", logger.Resource(name))
	if running {
		r.Start()
	}
	return nil
}

func (g *group) sortedNamesLocked() []string {
	names := make([]string, 0, len(g.runners))
	for name := range g.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
