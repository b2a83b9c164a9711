package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/models"
)

var ErrNotFound = errors.New("record not found")

// IRepository reads and mutates the mock fleet.
type IRepository interface {
	ListNodes(ctx context.Context) ([]models.Node, error)
	GetNode(ctx context.Context, id int64) (*models.Node, error)
	// NodeEvents returns the newest limit events of a node, oldest first
	NodeEvents(ctx context.Context, id int64, limit int) ([]models.NodeEvent, error)
	ListNodeSSHKeys(ctx context.Context, id int64) ([]models.NodeSSHKey, error)
	// ListWireGuardPeers returns the peers of nodeID, or every peer when nodeID is 0
	ListWireGuardPeers(ctx context.Context, nodeID int64) ([]models.WireGuardPeer, error)
	// ListOSPFNeighbors returns the neighbors of nodeID, or every neighbor when nodeID is 0
	ListOSPFNeighbors(ctx context.Context, nodeID int64) ([]models.OSPFNeighbor, error)
	GetCluster(ctx context.Context) (*models.KubernetesClusterSummary, error)
	GetDeploymentSettings(ctx context.Context) (*models.DeploymentSettings, error)
	ListEnrollments(ctx context.Context) ([]models.NodeEnrollmentRequest, error)
	ListIPPools(ctx context.Context) ([]models.IPPool, error)
	ListIPAllocations(ctx context.Context) ([]models.IPAllocation, error)

	// Heartbeat moves every active node's metrics and appends an event,
	// so polling clients see the fleet change.
	Heartbeat(ctx context.Context, now time.Time) error
}
