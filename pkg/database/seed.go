package database

import (
	"fmt"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedInitialData fills an empty database with a small fleet: three hubs,
// the requested number of workers, a full WireGuard/OSPF mesh between
// hubs and workers, IPAM pools and a pending enrollment.
func SeedInitialData(db *gorm.DB, workers int) error {
	var count int64
	if err := db.Model(&models.Node{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing nodes: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		settings := models.DeploymentSettings{
			ID:                    1,
			LoopbackCIDR:          "10.255.0.0/24",
			HubToHubCIDR:          "10.254.0.0/24",
			Hub1WorkerCIDR:        "10.1.0.0/16",
			Hub2WorkerCIDR:        "10.2.0.0/16",
			Hub3WorkerCIDR:        "10.3.0.0/16",
			KubernetesPodCIDR:     "10.244.0.0/16",
			KubernetesServiceCIDR: "10.96.0.0/12",
			OSPFArea:              0,
			OSPFHelloInterval:     10,
			OSPFDeadInterval:      40,
			OSPFHubToHubCost:      10,
			OSPFHubToWorkerCost:   100,
			OSPFWorkerToHubCost:   100,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed deployment settings: %w", err)
		}

		var nodes []models.Node
		for i := 1; i <= 3; i++ {
			nodes = append(nodes, seedNode(fmt.Sprintf("hub-%d", i), models.RoleHub, i, now))
		}
		for i := 1; i <= workers; i++ {
			nodes = append(nodes, seedNode(fmt.Sprintf("worker-%d", i), models.RoleWorker, 10+i, now))
		}
		if err := tx.Create(&nodes).Error; err != nil {
			return fmt.Errorf("failed to seed nodes: %w", err)
		}

		var pools []models.IPPool
		pools = append(pools, models.IPPool{Kind: "loopback", Purpose: "router-id", CIDR: settings.LoopbackCIDR})
		for hub := 1; hub <= 3; hub++ {
			n := hub
			pools = append(pools, models.IPPool{Kind: "worker", Purpose: "wireguard", CIDR: fmt.Sprintf("10.%d.0.0/16", hub), HubNumber: &n})
		}
		if err := tx.Create(&pools).Error; err != nil {
			return fmt.Errorf("failed to seed ip pools: %w", err)
		}

		var (
			peers     []models.WireGuardPeer
			neighbors []models.OSPFNeighbor
			keys      []models.NodeSSHKey
			allocs    []models.IPAllocation
			events    []models.NodeEvent
		)
		hubs := nodes[:3]
		for i := range nodes {
			n := &nodes[i]
			id := n.ID
			allocs = append(allocs, models.IPAllocation{
				PoolID:  pools[0].ID,
				NodeID:  &id,
				Value:   fmt.Sprintf("10.255.0.%d", i+1),
				Purpose: "loopback",
			})
			keys = append(keys, models.NodeSSHKey{
				NodeID:    n.ID,
				Username:  "ops",
				PublicKey: "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5" + uuid.NewString(),
				Comment:   "ops@" + n.Hostname,
			})
			events = append(events, models.NodeEvent{NodeID: n.ID, Message: "agent connected", CreatedAt: now})

			for j := range hubs {
				h := &hubs[j]
				if h.ID == n.ID || (n.Role == models.RoleHub && h.ID < n.ID) {
					continue
				}
				handshake := now.Add(-time.Duration(30*(j+1)) * time.Second)
				peers = append(peers, models.WireGuardPeer{
					LocalNodeID:        n.ID,
					LocalNodeHostname:  n.Hostname,
					LocalInterfaceName: fmt.Sprintf("wg-hub%d", j+1),
					LocalPublicKey:     uuid.NewString(),
					LocalEndpoint:      n.PublicIP + ":51820",
					PeerNodeID:         h.ID,
					PeerHostname:       h.Hostname,
					PeerInterfaceName:  "wg-" + n.Hostname,
					PeerPublicKey:      uuid.NewString(),
					PeerEndpoint:       h.PublicIP + ":51820",
					AllowedIPs:         fmt.Sprintf("10.%d.0.0/16", j+1),
					LastHandshakeAt:    &handshake,
					Status:             "up",
					UIStatus:           models.PeerConnected,
				})
				neighbors = append(neighbors, models.OSPFNeighbor{
					NodeID:               n.ID,
					NodeHostname:         n.Hostname,
					RouterID:             fmt.Sprintf("10.255.0.%d", j+1),
					Area:                 "0.0.0.0",
					State:                "Full",
					Interface:            fmt.Sprintf("wg-hub%d", j+1),
					HelloIntervalSeconds: settings.OSPFHelloInterval,
					DeadIntervalSeconds:  settings.OSPFDeadInterval,
					Cost:                 settings.OSPFWorkerToHubCost,
					Priority:             1,
				})
			}
		}

		for _, batch := range []interface{}{&peers, &neighbors, &keys, &allocs, &events} {
			if err := tx.Create(batch).Error; err != nil {
				return fmt.Errorf("failed to seed fleet topology: %w", err)
			}
		}

		bootstrap := nodes[0].ID
		cluster := models.KubernetesClusterSummary{
			BootstrapNodeID:      &bootstrap,
			ControlPlaneEndpoint: nodes[0].PublicIP + ":6443",
			PodCIDR:              settings.KubernetesPodCIDR,
			ServiceCIDR:          settings.KubernetesServiceCIDR,
			KubernetesVersion:    "v1.31.2",
			InitializedAt:        &now,
		}
		if err := tx.Create(&cluster).Error; err != nil {
			return fmt.Errorf("failed to seed kubernetes cluster: %w", err)
		}

		enrollment := models.NodeEnrollmentRequest{
			RequestedAt: now,
			Status:      models.EnrollmentPending,
			Hostname:    fmt.Sprintf("worker-%d", workers+1),
			PublicIP:    fmt.Sprintf("203.0.113.%d", 10+workers+1),
			Provider:    "hetzner",
			OS:          "ubuntu-24.04",
			DesiredRole: models.RoleWorker,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return fmt.Errorf("failed to seed enrollment: %w", err)
		}
		return nil
	})
}

func seedNode(hostname string, role models.NodeRole, octet int, now time.Time) models.Node {
	cpu, mem, disk := 12.5, 41.0, 23.0
	uptime := int64(86400)
	seen := now
	return models.Node{
		Hostname:       hostname,
		Role:           role,
		PublicIP:       fmt.Sprintf("203.0.113.%d", octet),
		Provider:       "hetzner",
		OS:             "ubuntu-24.04",
		Labels:         map[string]string{"role": string(role)},
		Status:         models.NodeActive,
		LastSeenAt:     &seen,
		AgentVersion:   "0.9.0",
		CPUUsage:       &cpu,
		MemoryUsage:    &mem,
		DiskUsage:      &disk,
		UptimeSeconds:  &uptime,
		SystemUsers:    []string{"root", "ops"},
		SystemServices: []models.SystemService{{Name: "wg-quick@wg0", ActiveState: "active", SubState: "running", Enabled: true}},
		K8sState:       "joined",
	}
}
