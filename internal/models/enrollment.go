package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentAccepted EnrollmentStatus = "accepted"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

type NodeEnrollmentRequest struct {
	ID              int64            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	RequestedAt     time.Time        `gorm:"column:requested_at" json:"requested_at"`
	Status          EnrollmentStatus `gorm:"column:status;index" json:"status"`
	Hostname        string           `gorm:"column:hostname" json:"hostname"`
	PublicIP        string           `gorm:"column:public_ip" json:"public_ip"`
	Provider        string           `gorm:"column:provider" json:"provider"`
	OS              string           `gorm:"column:os" json:"os"`
	DesiredRole     NodeRole         `gorm:"column:desired_role" json:"desired_role"`
	ApprovedAt      *time.Time       `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason string           `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time       `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
	ConvertedNodeID *int64           `gorm:"column:converted_node_id" json:"converted_node_id,omitempty"`
}

func (NodeEnrollmentRequest) TableName() string {
	return "node_enrollment_requests"
}
