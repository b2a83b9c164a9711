package models

import "time"

type NodeRole string

const (
	RoleHub    NodeRole = "hub"
	RoleWorker NodeRole = "worker"
)

type NodeStatus string

const (
	NodeActive         NodeStatus = "active"
	NodeMaintenance    NodeStatus = "maintenance"
	NodeOffline        NodeStatus = "offline"
	NodeDecommissioned NodeStatus = "decommissioned"
)

type SystemService struct {
	Name        string `json:"name"`
	ActiveState string `json:"active_state"`
	SubState    string `json:"sub_state"`
	Enabled     bool   `json:"enabled"`
}

type Node struct {
	ID                  int64             `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Hostname            string            `gorm:"column:hostname;uniqueIndex" json:"hostname"`
	Role                NodeRole          `gorm:"column:role" json:"role"`
	PublicIP            string            `gorm:"column:public_ip" json:"public_ip"`
	ManagementIP        string            `gorm:"column:management_ip" json:"management_ip,omitempty"`
	Provider            string            `gorm:"column:provider" json:"provider"`
	OS                  string            `gorm:"column:os" json:"os"`
	Labels              map[string]string `gorm:"column:labels;serializer:json" json:"labels,omitempty"`
	Status              NodeStatus        `gorm:"column:status" json:"status"`
	LastSeenAt          *time.Time        `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	AgentVersion        string            `gorm:"column:agent_version" json:"agent_version"`
	CPUUsage            *float64          `gorm:"column:cpu_usage" json:"cpu_usage,omitempty"`
	MemoryUsage         *float64          `gorm:"column:memory_usage" json:"memory_usage,omitempty"`
	DiskUsage           *float64          `gorm:"column:disk_usage" json:"disk_usage,omitempty"`
	UptimeSeconds       *int64            `gorm:"column:uptime_seconds" json:"uptime_seconds,omitempty"`
	SystemUsers         []string          `gorm:"column:system_users;serializer:json" json:"system_users,omitempty"`
	SystemServices      []SystemService   `gorm:"column:system_services;serializer:json" json:"system_services,omitempty"`
	K8sState            string            `gorm:"column:k8s_state" json:"k8s_state,omitempty"`
	K8sLastError        string            `gorm:"column:k8s_last_error" json:"k8s_last_error,omitempty"`
	EnrollmentRequestID int64             `gorm:"column:enrollment_request_id" json:"enrollment_request_id"`
}

func (Node) TableName() string {
	return "nodes"
}

// NodeLogs is the tail of a node's log/event stream.
type NodeLogs struct {
	Window string   `json:"window"`
	Logs   []string `json:"logs"`
}

// NodeEvent is one stored log line for a node.
type NodeEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	NodeID    int64     `gorm:"column:node_id;index" json:"node_id"`
	Message   string    `gorm:"column:message" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NodeEvent) TableName() string {
	return "node_events"
}
