package binding

import (
	"context"
	"fmt"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
)

const (
	FeedNodes                = "nodes"
	FeedNode                 = "node"
	FeedNodeLogs             = "node_logs"
	FeedNodeSSHKeys          = "node_ssh_keys"
	FeedNodeWireGuardPeers   = "node_wireguard_peers"
	FeedNodeOSPFNeighbors    = "node_ospf_neighbors"
	FeedWireGuardPeers       = "wireguard_peers"
	FeedOSPFNeighbors        = "ospf_neighbors"
	FeedKubernetesCluster    = "kubernetes_cluster"
	FeedKubernetesWorkloads  = "kubernetes_workloads"
	FeedKubernetesNetworking = "kubernetes_networking"
	FeedDeploymentSettings   = "deployment_settings"
	FeedEnrollments          = "enrollments"
	FeedIPPools              = "ip_pools"
	FeedIPAllocations        = "ip_allocations"
)

const (
	NodeInterval       = 10 * time.Second
	EnrollmentInterval = 15 * time.Second
	NetworkInterval    = 30 * time.Second
	KubernetesInterval = 30 * time.Second
	LogInterval        = 30 * time.Second
	IPAMInterval       = 30 * time.Second
	SettingsInterval   = 60 * time.Second

	DefaultLogLimit = 200
)

// Feeds lists every fleet-wide feed name.
var Feeds = []string{
	FeedNodes,
	FeedEnrollments,
	FeedWireGuardPeers,
	FeedOSPFNeighbors,
	FeedKubernetesCluster,
	FeedKubernetesWorkloads,
	FeedKubernetesNetworking,
	FeedDeploymentSettings,
	FeedIPPools,
	FeedIPAllocations,
}

// NodeFeeds lists the feeds bound to a single node.
var NodeFeeds = []string{
	FeedNode,
	FeedNodeLogs,
	FeedNodeSSHKeys,
	FeedNodeWireGuardPeers,
	FeedNodeOSPFNeighbors,
}

// KnownFeed reports whether name is a fleet-wide or node feed.
func KnownFeed(name string) bool {
	for _, n := range Feeds {
		if n == name {
			return true
		}
	}
	for _, n := range NodeFeeds {
		if n == name {
			return true
		}
	}
	return false
}

func validNode(id int64) bool {
	return id > 0
}

func (f *Factory) Nodes(opts ...poll.Option) *poll.Session[[]models.Node] {
	return build(f, FeedNodes, "nodes",
		f.policy(FeedNodes, NodeInterval, true, true), f.logger,
		func(ctx context.Context) ([]models.Node, error) { return f.client.ListNodes(ctx) }, opts)
}

func (f *Factory) Node(id int64, opts ...poll.Option) *poll.Session[*models.Node] {
	log := f.logger.WithNodeID(id)
	return build(f, FeedNode, fmt.Sprintf("node %d", id),
		f.policy(FeedNode, NodeInterval, true, validNode(id)), log,
		func(ctx context.Context) (*models.Node, error) { return f.client.GetNode(ctx, id) }, opts)
}

// NodeLogs tails a node's logs. The tail is expensive, so it only polls
// while active; callers flip it with SetEnabled as the log view opens
// and closes.
func (f *Factory) NodeLogs(id int64, active bool, opts ...poll.Option) *poll.Session[*models.NodeLogs] {
	log := f.logger.WithNodeID(id)
	limit := f.logLimit
	return build(f, FeedNodeLogs, fmt.Sprintf("node %d logs", id),
		f.policy(FeedNodeLogs, LogInterval, active, validNode(id)), log,
		func(ctx context.Context) (*models.NodeLogs, error) { return f.client.GetNodeLogs(ctx, id, limit) }, opts)
}

func (f *Factory) NodeSSHKeys(id int64, opts ...poll.Option) *poll.Session[[]models.NodeSSHKey] {
	log := f.logger.WithNodeID(id)
	return build(f, FeedNodeSSHKeys, fmt.Sprintf("node %d SSH keys", id),
		f.policy(FeedNodeSSHKeys, NetworkInterval, true, validNode(id)), log,
		func(ctx context.Context) ([]models.NodeSSHKey, error) { return f.client.ListNodeSSHKeys(ctx, id) }, opts)
}

func (f *Factory) NodeWireGuardPeers(id int64, opts ...poll.Option) *poll.Session[[]models.WireGuardPeer] {
	log := f.logger.WithNodeID(id)
	return build(f, FeedNodeWireGuardPeers, fmt.Sprintf("node %d WG peers", id),
		f.policy(FeedNodeWireGuardPeers, NetworkInterval, true, validNode(id)), log,
		func(ctx context.Context) ([]models.WireGuardPeer, error) { return f.client.ListNodeWireGuardPeers(ctx, id) }, opts)
}

func (f *Factory) NodeOSPFNeighbors(id int64, opts ...poll.Option) *poll.Session[[]models.OSPFNeighbor] {
	log := f.logger.WithNodeID(id)
	return build(f, FeedNodeOSPFNeighbors, fmt.Sprintf("node %d OSPF neighbors", id),
		f.policy(FeedNodeOSPFNeighbors, NetworkInterval, true, validNode(id)), log,
		func(ctx context.Context) ([]models.OSPFNeighbor, error) { return f.client.ListNodeOSPFNeighbors(ctx, id) }, opts)
}

func (f *Factory) WireGuardPeers(opts ...poll.Option) *poll.Session[[]models.WireGuardPeer] {
	return build(f, FeedWireGuardPeers, "WireGuard peers",
		f.policy(FeedWireGuardPeers, NetworkInterval, true, true), f.logger,
		func(ctx context.Context) ([]models.WireGuardPeer, error) { return f.client.ListWireGuardPeers(ctx) }, opts)
}

func (f *Factory) OSPFNeighbors(opts ...poll.Option) *poll.Session[[]models.OSPFNeighbor] {
	return build(f, FeedOSPFNeighbors, "OSPF neighbors",
		f.policy(FeedOSPFNeighbors, NetworkInterval, true, true), f.logger,
		func(ctx context.Context) ([]models.OSPFNeighbor, error) { return f.client.ListOSPFNeighbors(ctx) }, opts)
}

func (f *Factory) KubernetesCluster(opts ...poll.Option) *poll.Session[*models.KubernetesClusterResponse] {
	return build(f, FeedKubernetesCluster, "Kubernetes cluster",
		f.policy(FeedKubernetesCluster, KubernetesInterval, true, true), f.logger,
		func(ctx context.Context) (*models.KubernetesClusterResponse, error) {
			return f.client.GetKubernetesCluster(ctx)
		}, opts)
}

func (f *Factory) KubernetesWorkloads(opts ...poll.Option) *poll.Session[*models.KubernetesWorkloadsResponse] {
	return build(f, FeedKubernetesWorkloads, "Kubernetes workloads",
		f.policy(FeedKubernetesWorkloads, KubernetesInterval, true, true), f.logger,
		func(ctx context.Context) (*models.KubernetesWorkloadsResponse, error) {
			return f.client.GetKubernetesWorkloads(ctx)
		}, opts)
}

func (f *Factory) KubernetesNetworking(opts ...poll.Option) *poll.Session[*models.KubernetesNetworkingResponse] {
	return build(f, FeedKubernetesNetworking, "Kubernetes networking",
		f.policy(FeedKubernetesNetworking, KubernetesInterval, true, true), f.logger,
		func(ctx context.Context) (*models.KubernetesNetworkingResponse, error) {
			return f.client.GetKubernetesNetworking(ctx)
		}, opts)
}

func (f *Factory) DeploymentSettings(opts ...poll.Option) *poll.Session[*models.DeploymentSettings] {
	return build(f, FeedDeploymentSettings, "deployment settings",
		f.policy(FeedDeploymentSettings, SettingsInterval, true, true), f.logger,
		func(ctx context.Context) (*models.DeploymentSettings, error) { return f.client.GetDeploymentSettings(ctx) }, opts)
}

func (f *Factory) Enrollments(opts ...poll.Option) *poll.Session[[]models.NodeEnrollmentRequest] {
	return build(f, FeedEnrollments, "enrollments",
		f.policy(FeedEnrollments, EnrollmentInterval, true, true), f.logger,
		func(ctx context.Context) ([]models.NodeEnrollmentRequest, error) { return f.client.ListEnrollments(ctx) }, opts)
}

func (f *Factory) IPPools(opts ...poll.Option) *poll.Session[[]models.IPPool] {
	return build(f, FeedIPPools, "IP pools",
		f.policy(FeedIPPools, IPAMInterval, true, true), f.logger,
		func(ctx context.Context) ([]models.IPPool, error) { return f.client.ListIPPools(ctx) }, opts)
}

func (f *Factory) IPAllocations(opts ...poll.Option) *poll.Session[[]models.IPAllocation] {
	return build(f, FeedIPAllocations, "IP allocations",
		f.policy(FeedIPAllocations, IPAMInterval, true, true), f.logger,
		func(ctx context.Context) ([]models.IPAllocation, error) { return f.client.ListIPAllocations(ctx) }, opts)
}

// Node-scoped binders for Keyed. Detail, SSH keys and network views of
// the same node share one session when coalescing is on. Log tails carry
// per-view enabled state and are never shared.

func (f *Factory) BindNode(id int64) (*poll.Session[*models.Node], Lease) {
	return attach(f, fmt.Sprintf("%s:%d", FeedNode, id), func() *poll.Session[*models.Node] { return f.Node(id) })
}

func (f *Factory) BindNodeSSHKeys(id int64) (*poll.Session[[]models.NodeSSHKey], Lease) {
	return attach(f, fmt.Sprintf("%s:%d", FeedNodeSSHKeys, id), func() *poll.Session[[]models.NodeSSHKey] {
		return f.NodeSSHKeys(id)
	})
}

func (f *Factory) BindNodeWireGuardPeers(id int64) (*poll.Session[[]models.WireGuardPeer], Lease) {
	return attach(f, fmt.Sprintf("%s:%d", FeedNodeWireGuardPeers, id), func() *poll.Session[[]models.WireGuardPeer] {
		return f.NodeWireGuardPeers(id)
	})
}

func (f *Factory) BindNodeOSPFNeighbors(id int64) (*poll.Session[[]models.OSPFNeighbor], Lease) {
	return attach(f, fmt.Sprintf("%s:%d", FeedNodeOSPFNeighbors, id), func() *poll.Session[[]models.OSPFNeighbor] {
		return f.NodeOSPFNeighbors(id)
	})
}

// NodeLogsBinder returns a binder whose sessions start enabled when
// active reports the log view open at bind time.
func (f *Factory) NodeLogsBinder(active func() bool) func(int64) (*poll.Session[*models.NodeLogs], Lease) {
	return func(id int64) (*poll.Session[*models.NodeLogs], Lease) {
		s := f.NodeLogs(id, active())
		s.Start()
		return s, ownLease[*models.NodeLogs]{s}
	}
}
