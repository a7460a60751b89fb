package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/employee-management/internal/report"
	"github.com/jmoiron/sqlx"
)

const employeeRowsQuery = `
	SELECT e.employee_id, e.user_id, e.first_name, e.last_name, u.email, u.role,
	       d.department_name, e.designation, e.salary, e.status, e.created_at
	FROM employees e
	JOIN users u ON u.id = e.user_id
	LEFT JOIN departments d ON d.department_id = e.department_id
	ORDER BY e.employee_id
`

const leaveRowsQuery = `
	SELECT l.leave_id, l.employee_id, e.first_name, e.last_name, u.email, u.role,
	       l.leave_type, l.start_date, l.end_date, l.reason, l.status,
	       l.rejection_reason, l.decided_at, l.created_at
	FROM leave_requests l
	JOIN employees e ON e.employee_id = l.employee_id
	JOIN users u ON u.id = e.user_id
	ORDER BY l.start_date DESC, l.leave_id DESC
`

const requestRowsQuery = `
	SELECT r.request_id, r.requester_id, u.email, u.role, r.items, r.description,
	       r.status, r.manager_approved, r.manager_reason, r.admin_approved,
	       r.admin_reason, r.created_at, r.updated_at
	FROM requests r
	JOIN users u ON u.id = r.requester_id
	ORDER BY r.created_at DESC, r.request_id DESC
`

// ReportRepository reads export rows with plain SQL over sqlx.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) EmployeeRows(ctx context.Context) ([]report.EmployeeRow, error) {
	var rows []report.EmployeeRow
	if err := r.db.SelectContext(ctx, &rows, employeeRowsQuery); err != nil {
		return nil, fmt.Errorf("failed to select employee rows: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) LeaveRows(ctx context.Context) ([]report.LeaveRow, error) {
	var rows []report.LeaveRow
	if err := r.db.SelectContext(ctx, &rows, leaveRowsQuery); err != nil {
		return nil, fmt.Errorf("failed to select leave rows: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) RequestRows(ctx context.Context) ([]report.RequestRow, error) {
	var rows []report.RequestRow
	if err := r.db.SelectContext(ctx, &rows, requestRowsQuery); err != nil {
		return nil, fmt.Errorf("failed to select request rows: %w", err)
	}
	return rows, nil
}
