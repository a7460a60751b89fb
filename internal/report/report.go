package report

import (
	"context"
	"time"
)

// LeaveRow is one line of the leave export.
type LeaveRow struct {
	LeaveID         int64      `db:"leave_id"`
	EmployeeID      int64      `db:"employee_id"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	Email           string     `db:"email"`
	Role            string     `db:"role"`
	LeaveType       string     `db:"leave_type"`
	StartDate       time.Time  `db:"start_date"`
	EndDate         time.Time  `db:"end_date"`
	Reason          string     `db:"reason"`
	Status          string     `db:"status"`
	RejectionReason *string    `db:"rejection_reason"`
	DecidedAt       *time.Time `db:"decided_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

// Days is the inclusive length of the leave in calendar days.
func (r LeaveRow) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// RequestRow is one line of the resource request export.
type RequestRow struct {
	RequestID       int64      `db:"request_id"`
	RequesterID     int64      `db:"requester_id"`
	RequesterEmail  string     `db:"email"`
	RequesterRole   string     `db:"role"`
	Items           string     `db:"items"`
	Description     string     `db:"description"`
	Status          string     `db:"status"`
	ManagerApproved *bool      `db:"manager_approved"`
	ManagerReason   *string    `db:"manager_reason"`
	AdminApproved   *bool      `db:"admin_approved"`
	AdminReason     *string    `db:"admin_reason"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at"`
}

// EmployeeRow is one line of the employee export.
type EmployeeRow struct {
	EmployeeID     int64     `db:"employee_id"`
	UserID         int64     `db:"user_id"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	Role           string    `db:"role"`
	DepartmentName *string   `db:"department_name"`
	Designation    string    `db:"designation"`
	Salary         float64   `db:"salary"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repository runs the read-only reporting queries.
type Repository interface {
	EmployeeRows(ctx context.Context) ([]EmployeeRow, error)
	LeaveRows(ctx context.Context) ([]LeaveRow, error)
	RequestRows(ctx context.Context) ([]RequestRow, error)
}
