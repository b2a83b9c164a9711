package models

import "time"

type WireGuardPeerUIStatus string

const (
	PeerConnected          WireGuardPeerUIStatus = "connected"
	PeerPotentiallyFailing WireGuardPeerUIStatus = "potentially_failing"
	PeerDown               WireGuardPeerUIStatus = "down"
	PeerUnknown            WireGuardPeerUIStatus = "unknown"
)

type WireGuardPeer struct {
	ID                 int64                 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	LocalNodeID        int64                 `gorm:"column:local_node_id;index" json:"local_node_id"`
	LocalNodeHostname  string                `gorm:"column:local_node_hostname" json:"local_node_hostname"`
	LocalInterfaceName string                `gorm:"column:local_interface_name" json:"local_interface_name"`
	LocalPublicKey     string                `gorm:"column:local_public_key" json:"local_public_key"`
	LocalEndpoint      string                `gorm:"column:local_endpoint" json:"local_endpoint"`
	PeerNodeID         int64                 `gorm:"column:peer_node_id" json:"peer_node_id"`
	PeerHostname       string                `gorm:"column:peer_hostname" json:"peer_hostname"`
	PeerInterfaceName  string                `gorm:"column:peer_interface_name" json:"peer_interface_name"`
	PeerPublicKey      string                `gorm:"column:peer_public_key" json:"peer_public_key"`
	PeerEndpoint       string                `gorm:"column:peer_endpoint" json:"peer_endpoint"`
	AllowedIPs         string                `gorm:"column:allowed_ips" json:"allowed_ips"`
	LastHandshakeAt    *time.Time            `gorm:"column:last_handshake_at" json:"last_handshake_at,omitempty"`
	RxBytes            int64                 `gorm:"column:rx_bytes" json:"rx_bytes"`
	TxBytes            int64                 `gorm:"column:tx_bytes" json:"tx_bytes"`
	Status             string                `gorm:"column:status" json:"status"`
	UIStatus           WireGuardPeerUIStatus `gorm:"column:ui_status" json:"ui_status"`
}

func (WireGuardPeer) TableName() string {
	return "wireguard_peers"
}

type OSPFNeighbor struct {
	ID                   int64  `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	NodeID               int64  `gorm:"column:node_id;index" json:"node_id"`
	NodeHostname         string `gorm:"column:node_hostname" json:"node_hostname"`
	RouterID             string `gorm:"column:router_id" json:"router_id"`
	Area                 string `gorm:"column:area" json:"area"`
	State                string `gorm:"column:state" json:"state"`
	Interface            string `gorm:"column:interface" json:"interface"`
	HelloIntervalSeconds int    `gorm:"column:hello_interval_seconds" json:"hello_interval_seconds,omitempty"`
	DeadIntervalSeconds  int    `gorm:"column:dead_interval_seconds" json:"dead_interval_seconds,omitempty"`
	Cost                 int    `gorm:"column:cost" json:"cost,omitempty"`
	Priority             int    `gorm:"column:priority" json:"priority,omitempty"`
}

func (OSPFNeighbor) TableName() string {
	return "ospf_neighbors"
}

type NodeSSHKey struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	NodeID    int64     `gorm:"column:node_id;index" json:"node_id"`
	Username  string    `gorm:"column:username" json:"username"`
	PublicKey string    `gorm:"column:public_key" json:"public_key"`
	Comment   string    `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (NodeSSHKey) TableName() string {
	return "node_ssh_keys"
}
