package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) IRepository {
	return &Repository{db: db}
}

func (r *Repository) ListNodes(ctx context.Context) ([]models.Node, error) {
	var nodes []models.Node
	if err := r.db.WithContext(ctx).Order("id").Find(&nodes).Error; err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return nodes, nil
}

func (r *Repository) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	var node models.Node
	if err := r.db.WithContext(ctx).First(&node, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	return &node, nil
}

func (r *Repository) NodeEvents(ctx context.Context, id int64, limit int) ([]models.NodeEvent, error) {
	if _, err := r.GetNode(ctx, id); err != nil {
		return nil, err
	}
	var events []models.NodeEvent
	err := r.db.WithContext(ctx).
		Where("node_id = ?", id).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list node events: %w", err)
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func (r *Repository) ListNodeSSHKeys(ctx context.Context, id int64) ([]models.NodeSSHKey, error) {
	if _, err := r.GetNode(ctx, id); err != nil {
		return nil, err
	}
	var keys []models.NodeSSHKey
	if err := r.db.WithContext(ctx).Where("node_id = ?", id).Order("id").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list ssh keys: %w", err)
	}
	return keys, nil
}

func (r *Repository) ListWireGuardPeers(ctx context.Context, nodeID int64) ([]models.WireGuardPeer, error) {
	q := r.db.WithContext(ctx).Order("id")
	if nodeID > 0 {
		if _, err := r.GetNode(ctx, nodeID); err != nil {
			return nil, err
		}
		q = q.Where("local_node_id = ? OR peer_node_id = ?", nodeID, nodeID)
	}
	var peers []models.WireGuardPeer
	if err := q.Find(&peers).Error; err != nil {
		return nil, fmt.Errorf("failed to list wireguard peers: %w", err)
	}
	return peers, nil
}

func (r *Repository) ListOSPFNeighbors(ctx context.Context, nodeID int64) ([]models.OSPFNeighbor, error) {
	q := r.db.WithContext(ctx).Order("id")
	if nodeID > 0 {
		if _, err := r.GetNode(ctx, nodeID); err != nil {
			return nil, err
		}
		q = q.Where("node_id = ?", nodeID)
	}
	var neighbors []models.OSPFNeighbor
	if err := q.Find(&neighbors).Error; err != nil {
		return nil, fmt.Errorf("failed to list ospf neighbors: %w", err)
	}
	return neighbors, nil
}

// GetCluster returns nil without error when no cluster was bootstrapped.
func (r *Repository) GetCluster(ctx context.Context) (*models.KubernetesClusterSummary, error) {
	var cluster models.KubernetesClusterSummary
	err := r.db.WithContext(ctx).Order("id").First(&cluster).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster: %w", err)
	}
	return &cluster, nil
}

func (r *Repository) GetDeploymentSettings(ctx context.Context) (*models.DeploymentSettings, error) {
	var settings models.DeploymentSettings
	if err := r.db.WithContext(ctx).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deployment settings: %w", err)
	}
	return &settings, nil
}

func (r *Repository) ListEnrollments(ctx context.Context) ([]models.NodeEnrollmentRequest, error) {
	var out []models.NodeEnrollmentRequest
	if err := r.db.WithContext(ctx).Order("requested_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return out, nil
}

func (r *Repository) ListIPPools(ctx context.Context) ([]models.IPPool, error) {
	var pools []models.IPPool
	if err := r.db.WithContext(ctx).Order("id").Find(&pools).Error; err != nil {
		return nil, fmt.Errorf("failed to list ip pools: %w", err)
	}
	return pools, nil
}

func (r *Repository) ListIPAllocations(ctx context.Context) ([]models.IPAllocation, error) {
	var allocs []models.IPAllocation
	if err := r.db.WithContext(ctx).Preload("Pool").Order("id").Find(&allocs).Error; err != nil {
		return nil, fmt.Errorf("failed to list ip allocations: %w", err)
	}
	return allocs, nil
}

func (r *Repository) Heartbeat(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nodes []models.Node
		if err := tx.Where("status = ?", models.NodeActive).Find(&nodes).Error; err != nil {
			return fmt.Errorf("failed to load nodes: %w", err)
		}

		phase := float64(now.Unix()%600) / 600 * 2 * math.Pi
		for i := range nodes {
			n := &nodes[i]
			cpu := 40 + 30*math.Sin(phase+float64(n.ID))
			mem := 55 + 15*math.Cos(phase+float64(n.ID))
			uptime := int64(0)
			if n.UptimeSeconds != nil {
				uptime = *n.UptimeSeconds
			}
			if n.LastSeenAt != nil {
				uptime += int64(now.Sub(*n.LastSeenAt).Seconds())
			}
			updates := map[string]interface{}{
				"cpu_usage":      math.Round(cpu*10) / 10,
				"memory_usage":   math.Round(mem*10) / 10,
				"uptime_seconds": uptime,
				"last_seen_at":   now,
			}
			if err := tx.Model(n).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update node %d: %w", n.ID, err)
			}
			event := models.NodeEvent{
				NodeID:    n.ID,
				Message:   fmt.Sprintf("heartbeat cpu=%.1f%% mem=%.1f%%", cpu, mem),
				CreatedAt: now,
			}
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to record event: %w", err)
			}
		}

		res := tx.Model(&models.WireGuardPeer{}).
			Where("ui_status = ?", models.PeerConnected).
			Update("last_handshake_at", now)
		if res.Error != nil {
			return fmt.Errorf("failed to refresh handshakes: %w", res.Error)
		}
		return nil
	})
}
