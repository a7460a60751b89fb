package leave

import "time"

// Leave statuses as persisted in leave_requests.status.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type LeaveRequest struct {
	ID              int64      `gorm:"column:leave_id;primaryKey"`
	EmployeeID      int64      `gorm:"column:employee_id;index;not null"`
	LeaveType       string     `gorm:"column:leave_type;not null"`
	StartDate       time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;type:date;not null"`
	Reason          string     `gorm:"column:reason;not null"`
	Status          string     `gorm:"column:status;not null"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	DecidedBy       *int64     `gorm:"column:decided_by"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
