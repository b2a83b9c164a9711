// Package repositorytest provides an in-memory fleet client for tests.
package repositorytest

import (
	"context"
	"sync"

	"github.com/Alwanly/fleet-dashboard/internal/dashboard/repository"
	"github.com/Alwanly/fleet-dashboard/internal/models"
)

var _ repository.IFleetClient = (*Client)(nil)

// Call records one request made through the fake.
type Call struct {
	Op     string
	NodeID int64
	Limit  int
}

// Client answers every read from the fields below. Fail makes an
// operation return an error until cleared with Fail(op, nil).
type Client struct {
	mu sync.Mutex

	Nodes       []models.Node
	Logs        []string
	SSHKeys     []models.NodeSSHKey
	Peers       []models.WireGuardPeer
	Neighbors   []models.OSPFNeighbor
	Cluster     *models.KubernetesClusterResponse
	Workloads   *models.KubernetesWorkloadsResponse
	Networking  *models.KubernetesNetworkingResponse
	Settings    *models.DeploymentSettings
	Enrollments []models.NodeEnrollmentRequest
	Pools       []models.IPPool
	Allocations []models.IPAllocation

	failures map[string]error
	calls    []Call
}

func New() *Client {
	return &Client{failures: make(map[string]error)}
}

func (c *Client) Fail(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, op)
		return
	}
	c.failures[op] = err
}

// Calls returns the recorded calls for op, or all calls when op is empty.
func (c *Client) Calls(op string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Call
	for _, call := range c.calls {
		if op == "" || call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

func (c *Client) record(call Call) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return c.failures[call.Op]
}

func (c *Client) ListNodes(ctx context.Context) ([]models.Node, error) {
	if err := c.record(Call{Op: "ListNodes"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Node(nil), c.Nodes...), nil
}

func (c *Client) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	if err := c.record(Call{Op: "GetNode", NodeID: id}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			n := c.Nodes[i]
			return &n, nil
		}
	}
	return &models.Node{ID: id}, nil
}

func (c *Client) GetNodeLogs(ctx context.Context, id int64, limit int) (*models.NodeLogs, error) {
	if err := c.record(Call{Op: "GetNodeLogs", NodeID: id, Limit: limit}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return &models.NodeLogs{Window: "1h", Logs: append([]string(nil), c.Logs...)}, nil
}

func (c *Client) ListNodeSSHKeys(ctx context.Context, id int64) ([]models.NodeSSHKey, error) {
	if err := c.record(Call{Op: "ListNodeSSHKeys", NodeID: id}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.NodeSSHKey(nil), c.SSHKeys...), nil
}

func (c *Client) ListWireGuardPeers(ctx context.Context) ([]models.WireGuardPeer, error) {
	if err := c.record(Call{Op: "ListWireGuardPeers"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.WireGuardPeer(nil), c.Peers...), nil
}

func (c *Client) ListOSPFNeighbors(ctx context.Context) ([]models.OSPFNeighbor, error) {
	if err := c.record(Call{Op: "ListOSPFNeighbors"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.OSPFNeighbor(nil), c.Neighbors...), nil
}

func (c *Client) ListNodeWireGuardPeers(ctx context.Context, id int64) ([]models.WireGuardPeer, error) {
	if err := c.record(Call{Op: "ListNodeWireGuardPeers", NodeID: id}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.WireGuardPeer
	for _, p := range c.Peers {
		if p.LocalNodeID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Client) ListNodeOSPFNeighbors(ctx context.Context, id int64) ([]models.OSPFNeighbor, error) {
	if err := c.record(Call{Op: "ListNodeOSPFNeighbors", NodeID: id}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.OSPFNeighbor
	for _, n := range c.Neighbors {
		if n.NodeID == id {
			out = append(out, n)
		}
	}
	return out, nil
}

func (c *Client) GetKubernetesCluster(ctx context.Context) (*models.KubernetesClusterResponse, error) {
	if err := c.record(Call{Op: "GetKubernetesCluster"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Cluster, nil
}

func (c *Client) GetKubernetesWorkloads(ctx context.Context) (*models.KubernetesWorkloadsResponse, error) {
	if err := c.record(Call{Op: "GetKubernetesWorkloads"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Workloads, nil
}

func (c *Client) GetKubernetesNetworking(ctx context.Context) (*models.KubernetesNetworkingResponse, error) {
	if err := c.record(Call{Op: "GetKubernetesNetworking"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Networking, nil
}

func (c *Client) GetDeploymentSettings(ctx context.Context) (*models.DeploymentSettings, error) {
	if err := c.record(Call{Op: "GetDeploymentSettings"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Settings, nil
}

func (c *Client) ListEnrollments(ctx context.Context) ([]models.NodeEnrollmentRequest, error) {
	if err := c.record(Call{Op: "ListEnrollments"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.NodeEnrollmentRequest(nil), c.Enrollments...), nil
}

func (c *Client) ListIPPools(ctx context.Context) ([]models.IPPool, error) {
	if err := c.record(Call{Op: "ListIPPools"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.IPPool(nil), c.Pools...), nil
}

func (c *Client) ListIPAllocations(ctx context.Context) ([]models.IPAllocation, error) {
	if err := c.record(Call{Op: "ListIPAllocations"}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.IPAllocation(nil), c.Allocations...), nil
}
