package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Alwanly/fleet-dashboard/internal/dashboard/binding"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/dto"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/pubsub"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
)

// MainView is the view node-scoped feeds resolve to when none is named.
const MainView = "main"

var (
	ErrUnknownFeed = errors.New("unknown feed")
	ErrUnknownView = errors.New("unknown view")
)

// Board runs every fleet-wide feed plus the node-scoped feeds of each
// view focused on a node.
type Board struct {
	factory   *binding.Factory
	group     poll.Poller
	signal    *visibility.Signal
	publisher pubsub.Publisher
	channel   string
	logger    *logger.CanonicalLogger

	mu    sync.RWMutex
	feeds map[string]feed
	views map[string]*nodeView
}

type BoardOptions struct {
	Factory *binding.Factory
	// Group runs the fleet-wide feeds. A new one is created when nil.
	Group  poll.Poller
	Signal *visibility.Signal
	// Publisher, when set, announces visibility changes on Channel so
	// every dashboard process pauses together.
	Publisher pubsub.Publisher
	Channel   string
	Logger    *logger.CanonicalLogger
}

func NewBoard(opts BoardOptions) (*Board, error) {
	if opts.Factory == nil {
		return nil, errors.New("board requires a binding factory")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	signal := opts.Signal
	if signal == nil {
		signal = visibility.Default()
	}
	group := opts.Group
	if group == nil {
		group = poll.NewGroup(log)
	}

	b := &Board{
		factory:   opts.Factory,
		group:     group,
		signal:    signal,
		publisher: opts.Publisher,
		channel:   opts.Channel,
		logger:    log.Component("board"),
		feeds:     make(map[string]feed),
		views:     make(map[string]*nodeView),
	}

	f := opts.Factory
	err := errors.Join(
		add(b, f.Nodes()),
		add(b, f.Enrollments()),
		add(b, f.WireGuardPeers()),
		add(b, f.OSPFNeighbors()),
		add(b, f.KubernetesCluster()),
		add(b, f.KubernetesWorkloads()),
		add(b, f.KubernetesNetworking()),
		add(b, f.DeploymentSettings()),
		add(b, f.IPPools()),
		add(b, f.IPAllocations()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register feeds: %w", err)
	}
	return b, nil
}

func add[T any](b *Board, s *poll.Session[T]) error {
	if err := b.group.Register(s.Name(), s); err != nil {
		return err
	}
	b.feeds[s.Name()] = sessionFeed[T]{s}
	return nil
}

// Start starts every fleet-wide feed. They stop when ctx ends.
func (b *Board) Start(ctx context.Context) error {
	return b.group.Start(ctx)
}

// Stop stops the fleet-wide feeds and releases every view.
func (b *Board) Stop() error {
	err := b.group.Stop()

	b.mu.Lock()
	views := b.views
	b.views = make(map[string]*nodeView)
	b.mu.Unlock()

	for _, v := range views {
		v.release()
	}
	return err
}

// Feeds returns the status of every fleet-wide feed followed by the
// node feeds of the main view, sorted by name within each group.
func (b *Board) Feeds() []dto.FeedStatus {
	b.mu.RLock()
	names := make([]string, 0, len(b.feeds))
	for name := range b.feeds {
		names = append(names, name)
	}
	main := b.views[MainView]
	b.mu.RUnlock()

	sort.Strings(names)
	out := make([]dto.FeedStatus, 0, len(names)+len(binding.NodeFeeds))
	for _, name := range names {
		out = append(out, b.feeds[name].Status())
	}
	if main != nil {
		out = append(out, main.status().Feeds...)
	}
	return out
}

// lookup resolves a fleet-wide feed, or a node feed of the main view.
func (b *Board) lookup(name string) (feed, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if f, ok := b.feeds[name]; ok {
		return f, nil
	}
	if !binding.KnownFeed(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeed, name)
	}
	v, ok := b.views[MainView]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no focused node", ErrUnknownFeed, name)
	}
	f, _ := v.feed(name)
	return f, nil
}

func (b *Board) Feed(name string) (dto.FeedStatus, error) {
	f, err := b.lookup(name)
	if err != nil {
		return dto.FeedStatus{}, err
	}
	return f.Status(), nil
}

// Refetch fetches name now and waits for the result. A failed fetch is
// reported in the returned status, not as an error.
func (b *Board) Refetch(ctx context.Context, name string) (dto.FeedStatus, error) {
	f, err := b.lookup(name)
	if err != nil {
		return dto.FeedStatus{}, err
	}
	if err := f.Refetch(ctx); err != nil {
		return f.Status(), err
	}
	return f.Status(), nil
}

func (b *Board) SetEnabled(name string, enabled bool) (dto.FeedStatus, error) {
	f, err := b.lookup(name)
	if err != nil {
		return dto.FeedStatus{}, err
	}
	f.SetEnabled(enabled)
	b.logger.Info("feed toggled", logger.Resource(name), logger.Enabled(enabled))
	return f.Status(), nil
}

func (b *Board) Visible() bool {
	return b.signal.Visible()
}

// SetVisible flips the visibility signal locally and, with a publisher,
// announces it to every other process sharing the channel. The local
// flip happens even when the announcement fails.
func (b *Board) SetVisible(ctx context.Context, visible bool) (announced bool, err error) {
	b.signal.Set(visible)
	b.logger.Info("visibility changed", logger.Visible(visible))

	if b.publisher == nil {
		return false, nil
	}
	if err := visibility.Announce(ctx, b.publisher, b.channel, visible); err != nil {
		return false, fmt.Errorf("failed to announce visibility: %w", err)
	}
	return true, nil
}

// Focus points view at a node, creating the view on first use. Node 0
// clears the focus and drops the view.
func (b *Board) Focus(view string, nodeID int64) dto.ViewStatus {
	if view == "" {
		view = MainView
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.views[view]
	if nodeID <= 0 {
		if ok {
			v.release()
			delete(b.views, view)
		}
		return dto.ViewStatus{View: view}
	}
	if !ok {
		v = newNodeView(view, b.factory)
		b.views[view] = v
	}
	v.focus(nodeID)
	b.logger.Info("view focused", logger.View(view), logger.NodeID(nodeID))
	return v.status()
}

func (b *Board) View(view string) (dto.ViewStatus, error) {
	b.mu.RLock()
	v, ok := b.views[view]
	b.mu.RUnlock()
	if !ok {
		return dto.ViewStatus{}, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	return v.status(), nil
}

func (b *Board) Views() []dto.ViewStatus {
	b.mu.RLock()
	views := make([]*nodeView, 0, len(b.views))
	for _, v := range b.views {
		views = append(views, v)
	}
	b.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool { return views[i].name < views[j].name })
	out := make([]dto.ViewStatus, 0, len(views))
	for _, v := range views {
		out = append(out, v.status())
	}
	return out
}

func (b *Board) ReleaseView(view string) error {
	b.mu.Lock()
	v, ok := b.views[view]
	delete(b.views, view)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	v.release()
	return nil
}

// viewFeed resolves a node feed of a named view.
func (b *Board) viewFeed(view, name string) (feed, error) {
	b.mu.RLock()
	v, ok := b.views[view]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	f, ok := v.feed(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeed, name)
	}
	return f, nil
}

func (b *Board) SetViewEnabled(view, name string, enabled bool) (dto.FeedStatus, error) {
	f, err := b.viewFeed(view, name)
	if err != nil {
		return dto.FeedStatus{}, err
	}
	f.SetEnabled(enabled)
	b.logger.Info("view feed toggled",
		logger.View(view),
		logger.Resource(name),
		logger.Enabled(enabled),
	)
	return f.Status(), nil
}

func (b *Board) Health() dto.HealthResponse {
	b.mu.RLock()
	feeds, views := len(b.feeds), len(b.views)
	b.mu.RUnlock()

	shared := 0
	if r := b.factory.Registry(); r != nil {
		shared = r.Len()
	}
	return dto.HealthResponse{
		Status:         "healthy",
		Visible:        b.signal.Visible(),
		Feeds:          feeds,
		Views:          views,
		SharedSessions: shared,
	}
}
