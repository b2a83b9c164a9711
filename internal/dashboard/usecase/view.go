package usecase

import (
	"sync"

	"github.com/Alwanly/fleet-dashboard/internal/dashboard/binding"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/dto"
	"github.com/Alwanly/fleet-dashboard/internal/models"
)

// nodeView follows one focused node. Refocusing rebinds every
// node-scoped feed to the new node.
type nodeView struct {
	name string

	mu         sync.Mutex
	nodeID     int64
	logsActive bool

	node      *binding.Keyed[int64, *models.Node]
	logs      *binding.Keyed[int64, *models.NodeLogs]
	sshKeys   *binding.Keyed[int64, []models.NodeSSHKey]
	wireguard *binding.Keyed[int64, []models.WireGuardPeer]
	ospf      *binding.Keyed[int64, []models.OSPFNeighbor]
}

func newNodeView(name string, f *binding.Factory) *nodeView {
	v := &nodeView{name: name}
	v.node = binding.NewKeyed[int64, *models.Node](f.BindNode)
	v.logs = binding.NewKeyed[int64, *models.NodeLogs](f.NodeLogsBinder(v.logsOpen))
	v.sshKeys = binding.NewKeyed[int64, []models.NodeSSHKey](f.BindNodeSSHKeys)
	v.wireguard = binding.NewKeyed[int64, []models.WireGuardPeer](f.BindNodeWireGuardPeers)
	v.ospf = binding.NewKeyed[int64, []models.OSPFNeighbor](f.BindNodeOSPFNeighbors)
	return v
}

func (v *nodeView) logsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.logsActive
}

func (v *nodeView) setLogsOpen(open bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logsActive = open
}

// focus binds every feed to id. id 0 releases them.
func (v *nodeView) focus(id int64) {
	v.mu.Lock()
	v.nodeID = id
	v.mu.Unlock()

	if id <= 0 {
		v.release()
		return
	}
	v.node.Bind(id)
	v.logs.Bind(id)
	v.sshKeys.Bind(id)
	v.wireguard.Bind(id)
	v.ospf.Bind(id)
}

func (v *nodeView) focused() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nodeID
}

func (v *nodeView) release() {
	v.node.Release()
	v.logs.Release()
	v.sshKeys.Release()
	v.wireguard.Release()
	v.ospf.Release()
}

func (v *nodeView) feed(name string) (feed, bool) {
	switch name {
	case binding.FeedNode:
		return keyedFeed[*models.Node]{name: name, view: v.name, keyed: v.node}, true
	case binding.FeedNodeLogs:
		return keyedFeed[*models.NodeLogs]{name: name, view: v.name, keyed: v.logs, onEnabled: v.setLogsOpen}, true
	case binding.FeedNodeSSHKeys:
		return keyedFeed[[]models.NodeSSHKey]{name: name, view: v.name, keyed: v.sshKeys}, true
	case binding.FeedNodeWireGuardPeers:
		return keyedFeed[[]models.WireGuardPeer]{name: name, view: v.name, keyed: v.wireguard}, true
	case binding.FeedNodeOSPFNeighbors:
		return keyedFeed[[]models.OSPFNeighbor]{name: name, view: v.name, keyed: v.ospf}, true
	}
	return nil, false
}

func (v *nodeView) status() dto.ViewStatus {
	out := dto.ViewStatus{View: v.name, NodeID: v.focused()}
	for _, name := range binding.NodeFeeds {
		f, _ := v.feed(name)
		out.Feeds = append(out.Feeds, f.Status())
	}
	return out
}
