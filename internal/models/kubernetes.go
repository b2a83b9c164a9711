package models

import "time"

type KubernetesClusterSummary struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	BootstrapNodeID      *int64     `gorm:"column:bootstrap_node_id" json:"bootstrap_node_id,omitempty"`
	ControlPlaneEndpoint string     `gorm:"column:control_plane_endpoint" json:"control_plane_endpoint"`
	PodCIDR              string     `gorm:"column:pod_cidr" json:"pod_cidr"`
	ServiceCIDR          string     `gorm:"column:service_cidr" json:"service_cidr"`
	KubernetesVersion    string     `gorm:"column:kubernetes_version" json:"kubernetes_version"`
	InitializedAt        *time.Time `gorm:"column:initialized_at" json:"initialized_at,omitempty"`
	JoinCommandExpiresAt *time.Time `gorm:"column:join_command_expires_at" json:"join_command_expires_at,omitempty"`
}

func (KubernetesClusterSummary) TableName() string {
	return "kubernetes_clusters"
}

type KubernetesClusterResponse struct {
	Cluster *KubernetesClusterSummary `json:"cluster"`
}

type KubernetesWorkloadNamespaceSummary struct {
	Namespace         string `json:"namespace"`
	DeploymentsTotal  int    `json:"deployments_total"`
	DeploymentsReady  int    `json:"deployments_ready"`
	StatefulSetsTotal int    `json:"statefulsets_total"`
	StatefulSetsReady int    `json:"statefulsets_ready"`
	DaemonSetsTotal   int    `json:"daemonsets_total"`
	DaemonSetsReady   int    `json:"daemonsets_ready"`
	JobsTotal         int    `json:"jobs_total"`
	JobsActive        int    `json:"jobs_active"`
	JobsSucceeded     int    `json:"jobs_succeeded"`
	JobsFailed        int    `json:"jobs_failed"`
	PodsTotal         int    `json:"pods_total"`
	PodsRunning       int    `json:"pods_running"`
	PodsPending       int    `json:"pods_pending"`
	PodsSucceeded     int    `json:"pods_succeeded"`
	PodsFailed        int    `json:"pods_failed"`
	PodsUnhealthy     int    `json:"pods_unhealthy"`
	RestartsTotal     int    `json:"restarts_total"`
}

type KubernetesWorkloadNodeSummary struct {
	Node          string `json:"node"`
	Pods          int    `json:"pods"`
	UnhealthyPods int    `json:"unhealthy_pods"`
}

type KubernetesWorkloadPodIssue struct {
	Namespace  string   `json:"namespace"`
	Name       string   `json:"name"`
	Node       string   `json:"node,omitempty"`
	Phase      string   `json:"phase"`
	Reason     string   `json:"reason,omitempty"`
	Message    string   `json:"message,omitempty"`
	Images     []string `json:"images,omitempty"`
	Restarts   int      `json:"restarts"`
	AgeSeconds int64    `json:"age_seconds"`
}

type KubernetesWorkloadResource struct {
	Namespace  string   `json:"namespace"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Ready      string   `json:"ready"`
	Images     []string `json:"images,omitempty"`
	AgeSeconds int64    `json:"age_seconds"`
}

type KubernetesWorkloadsResponse struct {
	GeneratedAt   time.Time                            `json:"generated_at"`
	Namespaces    []KubernetesWorkloadNamespaceSummary `json:"namespaces"`
	Nodes         []KubernetesWorkloadNodeSummary      `json:"nodes"`
	UnhealthyPods []KubernetesWorkloadPodIssue         `json:"unhealthy_pods"`
	Resources     []KubernetesWorkloadResource         `json:"resources"`
}

type KubernetesServiceInfo struct {
	Namespace  string   `json:"namespace"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	ClusterIP  string   `json:"cluster_ip"`
	ExternalIP string   `json:"external_ip,omitempty"`
	Ports      []string `json:"ports"`
	AgeSeconds int64    `json:"age_seconds"`
}

type KubernetesIngressRule struct {
	Host        string `json:"host"`
	Path        string `json:"path"`
	PathType    string `json:"path_type,omitempty"`
	ServiceName string `json:"service_name"`
	ServicePort string `json:"service_port"`
}

type KubernetesIngressInfo struct {
	Namespace    string                  `json:"namespace"`
	Name         string                  `json:"name"`
	IngressClass string                  `json:"ingress_class,omitempty"`
	TLS          bool                    `json:"tls"`
	TLSHosts     []string                `json:"tls_hosts,omitempty"`
	Rules        []KubernetesIngressRule `json:"rules"`
	Address      string                  `json:"address,omitempty"`
	AgeSeconds   int64                   `json:"age_seconds"`
}

type KubernetesNetworkingResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Services    []KubernetesServiceInfo `json:"services"`
	Ingresses   []KubernetesIngressInfo `json:"ingresses"`
}
