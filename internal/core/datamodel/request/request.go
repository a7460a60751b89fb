package request

import "time"

// Request statuses as persisted in requests.status.
const (
	StatusPendingManager = "Pending Manager"
	StatusPendingAdmin   = "Pending Admin"
	StatusApproved       = "Approved"
	StatusRejected       = "Rejected"
)

type Request struct {
	ID                int64      `gorm:"column:request_id;primaryKey"`
	RequesterID       int64      `gorm:"column:requester_id;index;not null"`
	Items             string     `gorm:"column:items;not null"`
	Description       string     `gorm:"column:description;not null"`
	Status            string     `gorm:"column:status;not null"`
	ManagerApproved   *bool      `gorm:"column:manager_approved"`
	ManagerReason     *string    `gorm:"column:manager_reason"`
	ManagerApprovedBy *int64     `gorm:"column:manager_approved_by"`
	ManagerApprovedAt *time.Time `gorm:"column:manager_approved_at"`
	AdminApproved     *bool      `gorm:"column:admin_approved"`
	AdminReason       *string    `gorm:"column:admin_reason"`
	AdminApprovedBy   *int64     `gorm:"column:admin_approved_by"`
	AdminApprovedAt   *time.Time `gorm:"column:admin_approved_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "requests"
}
