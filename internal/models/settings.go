package models

type DeploymentSettings struct {
	ID                    int64  `gorm:"primaryKey;column:id" json:"id"`
	LoopbackCIDR          string `gorm:"column:loopback_cidr" json:"loopback_cidr"`
	HubToHubCIDR          string `gorm:"column:hub_to_hub_cidr" json:"hub_to_hub_cidr"`
	Hub1WorkerCIDR        string `gorm:"column:hub1_worker_cidr" json:"hub1_worker_cidr"`
	Hub2WorkerCIDR        string `gorm:"column:hub2_worker_cidr" json:"hub2_worker_cidr"`
	Hub3WorkerCIDR        string `gorm:"column:hub3_worker_cidr" json:"hub3_worker_cidr"`
	KubernetesPodCIDR     string `gorm:"column:kubernetes_pod_cidr" json:"kubernetes_pod_cidr"`
	KubernetesServiceCIDR string `gorm:"column:kubernetes_service_cidr" json:"kubernetes_service_cidr"`
	OSPFArea              int    `gorm:"column:ospf_area" json:"ospf_area"`
	OSPFHelloInterval     int    `gorm:"column:ospf_hello_interval" json:"ospf_hello_interval"`
	OSPFDeadInterval      int    `gorm:"column:ospf_dead_interval" json:"ospf_dead_interval"`
	OSPFHubToHubCost      int    `gorm:"column:ospf_hub_to_hub_cost" json:"ospf_hub_to_hub_cost"`
	OSPFHubToWorkerCost   int    `gorm:"column:ospf_hub_to_worker_cost" json:"ospf_hub_to_worker_cost"`
	OSPFWorkerToHubCost   int    `gorm:"column:ospf_worker_to_hub_cost" json:"ospf_worker_to_hub_cost"`
}

func (DeploymentSettings) TableName() string {
	return "deployment_settings"
}
