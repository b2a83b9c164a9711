package repository

import (
	"context"

	"github.com/Alwanly/fleet-dashboard/internal/models"
)

// IFleetClient reads fleet state from the admin API. Every method fails
// with an *apierror.Error.
type IFleetClient interface {
	// ListNodes returns every node in the fleet
	ListNodes(ctx context.Context) ([]models.Node, error)
	// GetNode returns a single node
	GetNode(ctx context.Context, id int64) (*models.Node, error)
	// GetNodeLogs returns the last limit log lines of a node
	GetNodeLogs(ctx context.Context, id int64, limit int) (*models.NodeLogs, error)
	// ListNodeSSHKeys returns the SSH keys installed on a node
	ListNodeSSHKeys(ctx context.Context, id int64) ([]models.NodeSSHKey, error)

	ListWireGuardPeers(ctx context.Context) ([]models.WireGuardPeer, error)
	ListOSPFNeighbors(ctx context.Context) ([]models.OSPFNeighbor, error)
	ListNodeWireGuardPeers(ctx context.Context, id int64) ([]models.WireGuardPeer, error)
	ListNodeOSPFNeighbors(ctx context.Context, id int64) ([]models.OSPFNeighbor, error)

	GetKubernetesCluster(ctx context.Context) (*models.KubernetesClusterResponse, error)
	GetKubernetesWorkloads(ctx context.Context) (*models.KubernetesWorkloadsResponse, error)
	GetKubernetesNetworking(ctx context.Context) (*models.KubernetesNetworkingResponse, error)

	GetDeploymentSettings(ctx context.Context) (*models.DeploymentSettings, error)
	ListEnrollments(ctx context.Context) ([]models.NodeEnrollmentRequest, error)

	ListIPPools(ctx context.Context) ([]models.IPPool, error)
	ListIPAllocations(ctx context.Context) ([]models.IPAllocation, error)
}
