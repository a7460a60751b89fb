package leave

import (
	"errors"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
)

const (
	StatusPending  = leaveDatamodel.StatusPending
	StatusApproved = leaveDatamodel.StatusApproved
	StatusRejected = leaveDatamodel.StatusRejected
)

// ErrStatusChanged is returned by the repository when a conditional
// transition matched no row because the status moved underneath it.
var ErrStatusChanged = errors.New("leave status changed concurrently")

// LeaveRequest is a single-stage approval record. Owner fields are resolved
// from the employee and its user.
type LeaveRequest struct {
	ID              int64
	EmployeeID      int64
	LeaveType       string
	StartDate       time.Time
	EndDate         time.Time
	Reason          string
	Status          string
	RejectionReason *string
	DecidedBy       *int64
	DecidedAt       *time.Time
	CreatedAt       time.Time

	OwnerUserID  int64
	OwnerRole    internal.Role
	OwnerEmail   string
	EmployeeName string
}

func (l *LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

// Covers reports whether day falls within the inclusive date range.
func (l *LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(l.StartDate) && !day.After(l.EndDate)
}

// LeaveV1 is the API view of a leave request.
type LeaveV1 struct {
	ID              int64         `json:"leave_id"`
	EmployeeID      int64         `json:"employee_id"`
	EmployeeName    string        `json:"employee_name,omitempty"`
	OwnerRole       internal.Role `json:"owner_role,omitempty"`
	LeaveType       string        `json:"leave_type"`
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	Reason          string        `json:"reason"`
	Status          string        `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	DecidedBy       *int64        `json:"decided_by,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func (l *LeaveRequest) ToV1() LeaveV1 {
	return LeaveV1{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		EmployeeName:    l.EmployeeName,
		OwnerRole:       l.OwnerRole,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(validation.DateLayout),
		EndDate:         l.EndDate.Format(validation.DateLayout),
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		DecidedBy:       l.DecidedBy,
		DecidedAt:       l.DecidedAt,
		CreatedAt:       l.CreatedAt,
	}
}

func ToV1Slice(leaves []*LeaveRequest) []LeaveV1 {
	result := make([]LeaveV1, len(leaves))
	for i, l := range leaves {
		result[i] = l.ToV1()
	}
	return result
}

func ToDataModel(l *LeaveRequest) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		DecidedBy:       l.DecidedBy,
		DecidedAt:       l.DecidedAt,
		CreatedAt:       l.CreatedAt,
	}
}

func FromDataModel(l *leaveDatamodel.LeaveRequest) *LeaveRequest {
	return &LeaveRequest{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		DecidedBy:       l.DecidedBy,
		DecidedAt:       l.DecidedAt,
		CreatedAt:       l.CreatedAt,
	}
}
