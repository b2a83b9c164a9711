package binding

import (
	"errors"
	"testing"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/repository/repositorytest"
	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
	"github.com/Alwanly/fleet-dashboard/pkg/clock"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	waitFor = time.Second
	tick    = 2 * time.Millisecond
)

type harness struct {
	client  *repositorytest.Client
	clock   *clock.FakeClock
	signal  *visibility.Signal
	factory *Factory
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T, cfg *config.DashboardConfig) *harness {
	t.Helper()
	if cfg == nil {
		cfg = &config.DashboardConfig{Resume: poll.ResumeRefetch, LogLimit: 50}
	}
	core, logs := observer.New(zap.DebugLevel)
	h := &harness{
		client: repositorytest.New(),
		clock:  clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		signal: visibility.NewSignal(nil, nil),
		logs:   logs,
	}
	h.factory = NewFactory(cfg, h.client, logger.New(zap.New(core)),
		poll.WithClock(h.clock),
		poll.WithVisibility(h.signal),
	)
	return h
}

func waitFetches[T any](t *testing.T, s *poll.Session[T], n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Snapshot().Fetches >= n }, waitFor, tick)
}

func TestResourceIntervals(t *testing.T) {
	h := newHarness(t, nil)

	cases := []struct {
		name     string
		interval time.Duration
		enabled  bool
	}{
		{FeedNodes, h.factory.Nodes().Interval(), h.factory.Nodes().Enabled()},
		{FeedEnrollments, h.factory.Enrollments().Interval(), true},
		{FeedWireGuardPeers, h.factory.WireGuardPeers().Interval(), true},
		{FeedOSPFNeighbors, h.factory.OSPFNeighbors().Interval(), true},
		{FeedKubernetesCluster, h.factory.KubernetesCluster().Interval(), true},
		{FeedKubernetesWorkloads, h.factory.KubernetesWorkloads().Interval(), true},
		{FeedKubernetesNetworking, h.factory.KubernetesNetworking().Interval(), true},
		{FeedDeploymentSettings, h.factory.DeploymentSettings().Interval(), true},
		{FeedIPPools, h.factory.IPPools().Interval(), true},
		{FeedIPAllocations, h.factory.IPAllocations().Interval(), true},
	}
	want := map[string]time.Duration{
		FeedNodes:                10 * time.Second,
		FeedEnrollments:          15 * time.Second,
		FeedWireGuardPeers:       30 * time.Second,
		FeedOSPFNeighbors:        30 * time.Second,
		FeedKubernetesCluster:    30 * time.Second,
		FeedKubernetesWorkloads:  30 * time.Second,
		FeedKubernetesNetworking: 30 * time.Second,
		FeedDeploymentSettings:   60 * time.Second,
		FeedIPPools:              30 * time.Second,
		FeedIPAllocations:        30 * time.Second,
	}
	for _, tc := range cases {
		assert.Equal(t, want[tc.name], tc.interval, tc.name)
		assert.True(t, tc.enabled, tc.name)
	}
}

func TestNodeScopedFeedsRequireValidIdentity(t *testing.T) {
	h := newHarness(t, nil)

	assert.False(t, h.factory.Node(0).Enabled())
	assert.False(t, h.factory.NodeSSHKeys(-1).Enabled())
	assert.False(t, h.factory.NodeWireGuardPeers(0).Enabled())
	assert.False(t, h.factory.NodeOSPFNeighbors(0).Enabled())
	assert.False(t, h.factory.NodeLogs(0, true).Enabled())

	assert.True(t, h.factory.Node(3).Enabled())
	assert.Equal(t, 10*time.Second, h.factory.Node(3).Interval())
	assert.Equal(t, 30*time.Second, h.factory.NodeSSHKeys(3).Interval())
}

func TestNodeLogsOnlyPollWhileActive(t *testing.T) {
	h := newHarness(t, nil)

	s := h.factory.NodeLogs(4, false)
	s.Start()
	defer s.Close()
	assert.Never(t, func() bool { return len(h.client.Calls("GetNodeLogs")) > 0 }, 50*time.Millisecond, tick)

	s.SetEnabled(true)
	waitFetches(t, s, 1)

	calls := h.client.Calls("GetNodeLogs")
	require.Len(t, calls, 1)
	assert.Equal(t, int64(4), calls[0].NodeID)
	assert.Equal(t, 50, calls[0].Limit)
}

func TestFeedOverrides(t *testing.T) {
	off := false
	cfg := &config.DashboardConfig{
		Resume:   poll.ResumeSchedule,
		LogLimit: 10,
		Feeds: map[string]config.FeedOverride{
			FeedNodes:              {Interval: 2 * time.Second},
			FeedDeploymentSettings: {Enabled: &off},
		},
	}
	h := newHarness(t, cfg)

	assert.Equal(t, 2*time.Second, h.factory.Nodes().Interval())
	assert.True(t, h.factory.Nodes().Enabled())
	assert.False(t, h.factory.DeploymentSettings().Enabled())
	assert.Equal(t, 60*time.Second, h.factory.DeploymentSettings().Interval())
}

func TestNodeFetchIsClosedOverIdentity(t *testing.T) {
	h := newHarness(t, nil)
	h.client.Nodes = []models.Node{{ID: 9, Hostname: "worker-9"}}

	s := h.factory.Node(9)
	s.Start()
	defer s.Close()
	waitFetches(t, s, 1)

	snap := s.Snapshot()
	require.NotNil(t, snap.Data)
	assert.Equal(t, "worker-9", (*snap.Data).Hostname)
	assert.Equal(t, int64(9), h.client.Calls("GetNode")[0].NodeID)
}

func TestDefaultFailureHandlerLogs(t *testing.T) {
	h := newHarness(t, nil)
	h.client.Fail("GetNode", apierror.Protocol(404, "node not found"))

	s := h.factory.Node(12)
	s.Start()
	defer s.Close()
	waitFetches(t, s, 1)

	require.Eventually(t, func() bool {
		return h.logs.FilterMessage("failed to fetch node 12").Len() == 1
	}, waitFor, tick)
	entry := h.logs.FilterMessage("failed to fetch node 12").All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, int64(404), fields[logger.FieldStatus])
	assert.Equal(t, FeedNode, fields[logger.FieldResource])
	assert.Equal(t, int64(12), fields[logger.FieldNodeID])

	snap := s.Snapshot()
	require.NotNil(t, snap.Err)
	assert.Equal(t, "node not found", snap.Err.Message)
}

func TestPlainErrorsAreNormalized(t *testing.T) {
	h := newHarness(t, nil)
	h.client.Fail("ListEnrollments", errors.New("connection refused"))

	s := h.factory.Enrollments()
	s.Start()
	defer s.Close()
	waitFetches(t, s, 1)

	snap := s.Snapshot()
	require.NotNil(t, snap.Err)
	assert.Equal(t, 0, snap.Err.Status)
	assert.Equal(t, "connection refused", snap.Err.Message)
}

func TestKnownFeed(t *testing.T) {
	assert.True(t, KnownFeed(FeedNodes))
	assert.True(t, KnownFeed(FeedNodeLogs))
	assert.False(t, KnownFeed("users"))
	assert.Len(t, append(append([]string{}, Feeds...), NodeFeeds...), 15)
}
