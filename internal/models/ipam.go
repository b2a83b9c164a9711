package models

import "time"

type IPPool struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Kind      string    `gorm:"column:kind" json:"kind"`
	Purpose   string    `gorm:"column:purpose" json:"purpose"`
	CIDR      string    `gorm:"column:cidr" json:"cidr"`
	HubNumber *int      `gorm:"column:hub_number" json:"hub_number,omitempty"`
}

func (IPPool) TableName() string {
	return "ip_pools"
}

type IPAllocation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	PoolID      int64     `gorm:"column:pool_id;index" json:"pool_id"`
	Pool        *IPPool   `gorm:"foreignKey:PoolID" json:"pool,omitempty"`
	NodeID      *int64    `gorm:"column:node_id" json:"node_id,omitempty"`
	InterfaceID *int64    `gorm:"column:interface_id" json:"interface_id,omitempty"`
	Value       string    `gorm:"column:value" json:"value"`
	Purpose     string    `gorm:"column:purpose" json:"purpose"`
}

func (IPAllocation) TableName() string {
	return "ip_allocations"
}
