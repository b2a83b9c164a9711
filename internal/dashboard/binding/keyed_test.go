package binding

import (
	"context"
	"testing"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRebindStartsFreshSession(t *testing.T) {
	h := newHarness(t, nil)
	k := NewKeyed[int64, *models.Node](h.factory.BindNode)

	first := k.Bind(1)
	waitFetches(t, first, 1)
	assert.Same(t, first, k.Bind(1))

	second := k.Bind(2)
	waitFetches(t, second, 1)

	assert.NotSame(t, first, second)
	assert.False(t, first.Active())
	assert.True(t, second.Active())

	_, key, ok := k.Current()
	require.True(t, ok)
	assert.Equal(t, int64(2), key)

	ids := []int64{}
	for _, c := range h.client.Calls("GetNode") {
		ids = append(ids, c.NodeID)
	}
	assert.Equal(t, []int64{1, 2}, ids)

	// the torn-down session keeps its last state and never fetches again
	assert.Equal(t, 1, first.Snapshot().Fetches)
	assert.ErrorIs(t, first.Refetch(context.Background()), poll.ErrClosed)
}

func TestKeyedReleaseAndEmptySnapshot(t *testing.T) {
	h := newHarness(t, nil)
	k := NewKeyed[int64, []models.NodeSSHKey](h.factory.BindNodeSSHKeys)

	assert.Nil(t, k.Snapshot().Data)
	assert.ErrorIs(t, k.Refetch(context.Background()), poll.ErrClosed)

	s := k.Bind(3)
	waitFetches(t, s, 1)
	k.Release()

	assert.False(t, s.Active())
	_, _, ok := k.Current()
	assert.False(t, ok)
}

func TestCoalescedBindingsShareOneSession(t *testing.T) {
	h := newHarness(t, &config.DashboardConfig{Resume: poll.ResumeRefetch, CoalesceFeeds: true, LogLimit: 200})
	require.NotNil(t, h.factory.Registry())

	a := NewKeyed[int64, []models.WireGuardPeer](h.factory.BindNodeWireGuardPeers)
	b := NewKeyed[int64, []models.WireGuardPeer](h.factory.BindNodeWireGuardPeers)

	sa := a.Bind(5)
	sb := b.Bind(5)
	assert.Same(t, sa, sb)
	assert.Equal(t, 1, h.factory.Registry().Len())

	waitFetches(t, sa, 1)
	assert.Len(t, h.client.Calls("ListNodeWireGuardPeers"), 1)

	a.Release()
	assert.True(t, sb.Active())
	b.Release()
	assert.False(t, sb.Active())
	assert.Equal(t, 0, h.factory.Registry().Len())
}

func TestUncoalescedBindingsAreIndependent(t *testing.T) {
	h := newHarness(t, nil)
	assert.Nil(t, h.factory.Registry())

	a := NewKeyed[int64, []models.OSPFNeighbor](h.factory.BindNodeOSPFNeighbors)
	b := NewKeyed[int64, []models.OSPFNeighbor](h.factory.BindNodeOSPFNeighbors)
	defer a.Release()
	defer b.Release()

	sa := a.Bind(5)
	sb := b.Bind(5)
	assert.NotSame(t, sa, sb)

	waitFetches(t, sa, 1)
	waitFetches(t, sb, 1)
	assert.Len(t, h.client.Calls("ListNodeOSPFNeighbors"), 2)
}

func TestNodeLogsBinderReadsActiveAtBindTime(t *testing.T) {
	h := newHarness(t, nil)
	active := false
	k := NewKeyed[int64, *models.NodeLogs](h.factory.NodeLogsBinder(func() bool { return active }))
	defer k.Release()

	assert.False(t, k.Bind(1).Enabled())
	active = true
	s := k.Bind(2)
	assert.True(t, s.Enabled())
	waitFetches(t, s, 1)
}

func TestCoalescedHoldersKeepTheirOwnEnabledFlag(t *testing.T) {
	h := newHarness(t, &config.DashboardConfig{Resume: poll.ResumeRefetch, CoalesceFeeds: true, LogLimit: 200})
	a := NewKeyed[int64, *models.Node](h.factory.BindNode)
	b := NewKeyed[int64, *models.Node](h.factory.BindNode)
	defer b.Release()

	s := a.Bind(2)
	require.Same(t, s, b.Bind(2))

	a.SetEnabled(false)
	assert.False(t, a.Enabled())
	assert.True(t, b.Enabled())
	assert.True(t, s.Enabled())

	b.SetEnabled(false)
	assert.False(t, s.Enabled())

	// rebinding a to another node drops its hold on node 2
	a.SetEnabled(true)
	assert.True(t, s.Enabled())
	other := a.Bind(3)
	defer a.Release()
	assert.NotSame(t, s, other)
	assert.False(t, s.Enabled())
	assert.True(t, s.Active(), "b still holds node 2")
}

func TestUncoalescedSetEnabledTogglesOwnSession(t *testing.T) {
	h := newHarness(t, nil)
	k := NewKeyed[int64, *models.Node](h.factory.BindNode)
	defer k.Release()

	assert.False(t, k.Enabled(), "nothing bound")
	k.SetEnabled(false)

	s := k.Bind(1)
	assert.True(t, k.Enabled())
	k.SetEnabled(false)
	assert.False(t, s.Enabled())
	assert.False(t, k.Enabled())
}
