package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/binding"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/repository/repositorytest"
	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
	"github.com/Alwanly/fleet-dashboard/pkg/clock"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 2 * time.Millisecond
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (r *recordingPublisher) Publish(ctx context.Context, channel, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, channel+"="+message)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

type boardHarness struct {
	client *repositorytest.Client
	clock  *clock.FakeClock
	signal *visibility.Signal
	board  *Board
	pub    *recordingPublisher
}

func newBoardHarness(t *testing.T, coalesce bool) *boardHarness {
	t.Helper()
	h := &boardHarness{
		client: repositorytest.New(),
		clock:  clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		signal: visibility.NewSignal(nil, nil),
		pub:    &recordingPublisher{},
	}
	h.client.Nodes = []models.Node{{ID: 1, Hostname: "hub-1"}, {ID: 2, Hostname: "worker-1"}}

	cfg := &config.DashboardConfig{Resume: poll.ResumeRefetch, LogLimit: 200, CoalesceFeeds: coalesce}
	factory := binding.NewFactory(cfg, h.client, nil, poll.WithClock(h.clock), poll.WithVisibility(h.signal))

	board, err := NewBoard(BoardOptions{
		Factory:   factory,
		Signal:    h.signal,
		Publisher: h.pub,
		Channel:   "dashboard:visibility",
	})
	require.NoError(t, err)
	h.board = board
	t.Cleanup(func() { _ = board.Stop() })
	return h
}

func (h *boardHarness) waitFeed(t *testing.T, name string, fetches int) {
	t.Helper()
	require.Eventually(t, func() bool {
		st, err := h.board.Feed(name)
		return err == nil && st.Fetches >= fetches
	}, waitFor, tick)
}

func TestBoardRegistersEveryFleetFeed(t *testing.T) {
	h := newBoardHarness(t, false)

	feeds := h.board.Feeds()
	require.Len(t, feeds, len(binding.Feeds))
	for _, st := range feeds {
		assert.True(t, st.Bound, st.Name)
		assert.False(t, st.Active, st.Name)
		assert.Zero(t, st.Fetches, st.Name)
	}
	assert.Equal(t, len(binding.Feeds), h.board.Health().Feeds)
}

func TestBoardStartFetchesEveryFeedOnce(t *testing.T) {
	h := newBoardHarness(t, false)
	require.NoError(t, h.board.Start(context.Background()))

	for _, name := range binding.Feeds {
		h.waitFeed(t, name, 1)
	}
	st, err := h.board.Feed(binding.FeedNodes)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, "10s", st.Interval)
	nodes, ok := st.Data.([]models.Node)
	require.True(t, ok)
	assert.Len(t, nodes, 2)

	// only the 10s feed is due after ten seconds
	h.clock.WaitForTimers(len(binding.Feeds))
	h.clock.Advance(10 * time.Second)
	h.waitFeed(t, binding.FeedNodes, 2)
	assert.Len(t, h.client.Calls("ListEnrollments"), 1)
}

func TestBoardStopsWithContext(t *testing.T) {
	h := newBoardHarness(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.board.Start(ctx))
	h.waitFeed(t, binding.FeedNodes, 1)

	cancel()
	require.Eventually(t, func() bool {
		st, _ := h.board.Feed(binding.FeedNodes)
		return !st.Active
	}, waitFor, tick)
}

func TestBoardFeedFailureKeepsStaleData(t *testing.T) {
	h := newBoardHarness(t, false)
	require.NoError(t, h.board.Start(context.Background()))
	h.waitFeed(t, binding.FeedNodes, 1)

	h.client.Fail("ListNodes", apierror.Protocol(500, ""))
	st, err := h.board.Refetch(context.Background(), binding.FeedNodes)
	require.NoError(t, err)

	assert.Equal(t, 2, st.Fetches)
	assert.False(t, st.Loading)
	require.NotNil(t, st.Error)
	assert.Equal(t, 500, st.Error.Status)
	assert.Equal(t, "HTTP 500", st.Error.Message)
	assert.Equal(t, "Server error. Please try again later.", st.Error.Hint)
	nodes, ok := st.Data.([]models.Node)
	require.True(t, ok)
	assert.Len(t, nodes, 2)
}

func TestBoardUnknownFeed(t *testing.T) {
	h := newBoardHarness(t, false)

	_, err := h.board.Feed("users")
	assert.ErrorIs(t, err, ErrUnknownFeed)

	_, err = h.board.Feed(binding.FeedNodeLogs)
	assert.ErrorIs(t, err, ErrUnknownFeed, "node feeds need a focused main view")
}

func TestBoardSetEnabled(t *testing.T) {
	h := newBoardHarness(t, false)

	st, err := h.board.SetEnabled(binding.FeedDeploymentSettings, false)
	require.NoError(t, err)
	assert.False(t, st.Enabled)

	require.NoError(t, h.board.Start(context.Background()))
	h.waitFeed(t, binding.FeedNodes, 1)
	assert.Empty(t, h.client.Calls("GetDeploymentSettings"))

	_, err = h.board.SetEnabled(binding.FeedDeploymentSettings, true)
	require.NoError(t, err)
	h.waitFeed(t, binding.FeedDeploymentSettings, 1)
}

func TestBoardSetVisibleAnnounces(t *testing.T) {
	h := newBoardHarness(t, false)

	announced, err := h.board.SetVisible(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, announced)
	assert.False(t, h.board.Visible())
	assert.Equal(t, []string{"dashboard:visibility=hidden"}, h.pub.sent())

	h.pub.err = errors.New("redis down")
	announced, err = h.board.SetVisible(context.Background(), true)
	require.Error(t, err)
	assert.False(t, announced)
	assert.True(t, h.board.Visible(), "local signal flips even when the announcement fails")
}

func TestBoardHiddenPausesFeeds(t *testing.T) {
	h := newBoardHarness(t, false)
	require.NoError(t, h.board.Start(context.Background()))
	h.waitFeed(t, binding.FeedNodes, 1)
	h.clock.WaitForTimers(len(binding.Feeds))

	_, err := h.board.SetVisible(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, h.clock.HasTimers(0))

	h.clock.Advance(time.Minute)
	assert.Never(t, func() bool { return len(h.client.Calls("ListNodes")) > 1 }, 50*time.Millisecond, tick)

	_, err = h.board.SetVisible(context.Background(), true)
	require.NoError(t, err)
	h.waitFeed(t, binding.FeedNodes, 2)
}

func TestBoardFocusBindsNodeFeeds(t *testing.T) {
	h := newBoardHarness(t, false)

	view := h.board.Focus("", 1)
	assert.Equal(t, MainView, view.View)
	assert.Equal(t, int64(1), view.NodeID)
	require.Len(t, view.Feeds, len(binding.NodeFeeds))

	h.waitFeed(t, binding.FeedNode, 1)
	st, err := h.board.Feed(binding.FeedNode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.NodeID)
	node, ok := st.Data.(*models.Node)
	require.True(t, ok)
	assert.Equal(t, "hub-1", node.Hostname)

	logs, err := h.board.Feed(binding.FeedNodeLogs)
	require.NoError(t, err)
	assert.False(t, logs.Enabled, "log tail waits for the log view")

	assert.Len(t, h.board.Feeds(), len(binding.Feeds)+len(binding.NodeFeeds))
}

func TestBoardRefocusRebindsAndKeepsLogToggle(t *testing.T) {
	h := newBoardHarness(t, false)
	h.board.Focus(MainView, 1)

	_, err := h.board.SetEnabled(binding.FeedNodeLogs, true)
	require.NoError(t, err)
	h.waitFeed(t, binding.FeedNodeLogs, 1)

	before, err := h.board.Feed(binding.FeedNode)
	require.NoError(t, err)

	h.board.Focus(MainView, 2)
	after, err := h.board.Feed(binding.FeedNode)
	require.NoError(t, err)
	assert.NotEqual(t, before.SessionID, after.SessionID)
	assert.Equal(t, int64(2), after.NodeID)

	logs, err := h.board.Feed(binding.FeedNodeLogs)
	require.NoError(t, err)
	assert.True(t, logs.Enabled)
	require.Eventually(t, func() bool {
		for _, c := range h.client.Calls("GetNodeLogs") {
			if c.NodeID == 2 {
				return true
			}
		}
		return false
	}, waitFor, tick)
}

func TestBoardFocusZeroDropsView(t *testing.T) {
	h := newBoardHarness(t, false)
	h.board.Focus("ops", 1)
	require.Len(t, h.board.Views(), 1)

	h.board.Focus("ops", 0)
	assert.Empty(t, h.board.Views())
	_, err := h.board.View("ops")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestBoardViewsShareSessionsWhenCoalescing(t *testing.T) {
	h := newBoardHarness(t, true)

	a := h.board.Focus("alpha", 2)
	b := h.board.Focus("beta", 2)
	require.Equal(t, a.Feeds[0].Name, binding.FeedNode)
	assert.Equal(t, a.Feeds[0].SessionID, b.Feeds[0].SessionID)
	// detail, ssh keys, wireguard and ospf are shared; log tails are per view
	assert.Equal(t, 4, h.board.Health().SharedSessions)

	require.NoError(t, h.board.ReleaseView("alpha"))
	assert.Equal(t, 4, h.board.Health().SharedSessions)
	require.NoError(t, h.board.ReleaseView("beta"))
	assert.Equal(t, 0, h.board.Health().SharedSessions)

	assert.ErrorIs(t, h.board.ReleaseView("beta"), ErrUnknownView)
}

func TestBoardCoalescedViewsToggleIndependently(t *testing.T) {
	h := newBoardHarness(t, true)
	h.board.Focus("alpha", 2)
	h.board.Focus("beta", 2)

	alpha, err := h.board.SetViewEnabled("alpha", binding.FeedNode, false)
	require.NoError(t, err)
	beta, err := h.board.View("beta")
	require.NoError(t, err)
	require.Equal(t, binding.FeedNode, beta.Feeds[0].Name)

	assert.Equal(t, alpha.SessionID, beta.Feeds[0].SessionID, "still one shared session")
	assert.False(t, alpha.Enabled)
	assert.True(t, beta.Feeds[0].Enabled)

	h.board.mu.RLock()
	shared, _, ok := h.board.views["beta"].node.Current()
	h.board.mu.RUnlock()
	require.True(t, ok)
	assert.True(t, shared.Enabled())

	// beta keeps polling on schedule
	require.Eventually(t, func() bool { return shared.Snapshot().Fetches >= 1 }, waitFor, tick)
	h.clock.Advance(binding.NodeInterval)
	require.Eventually(t, func() bool { return shared.Snapshot().Fetches >= 2 }, waitFor, tick)

	_, err = h.board.SetViewEnabled("beta", binding.FeedNode, false)
	require.NoError(t, err)
	assert.False(t, shared.Enabled(), "no view wants it")

	st, err := h.board.SetViewEnabled("alpha", binding.FeedNode, true)
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.True(t, shared.Enabled())

	// releasing the only view that wants it pauses the session for beta
	require.NoError(t, h.board.ReleaseView("alpha"))
	assert.False(t, shared.Enabled())
	beta, err = h.board.View("beta")
	require.NoError(t, err)
	assert.False(t, beta.Feeds[0].Enabled)

	_, err = h.board.SetViewEnabled("gamma", binding.FeedNode, false)
	assert.ErrorIs(t, err, ErrUnknownView)
}
