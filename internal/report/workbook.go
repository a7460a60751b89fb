package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/employee-management/internal/core/common/validation"
	"github.com/xuri/excelize/v2"
)

const (
	EmployeeSheet = "Employees"
	LeaveSheet    = "Leaves"
	RequestSheet  = "Requests"

	timestampLayout = "2006-01-02 15:04"
)

var (
	employeeHeaders = []string{
		"Employee ID", "User ID", "Employee", "Email", "Role", "Department",
		"Designation", "Salary", "Status", "Created At",
	}
	leaveHeaders = []string{
		"Leave ID", "Employee ID", "Employee", "Email", "Role", "Leave Type",
		"Start Date", "End Date", "Days", "Reason", "Status", "Rejection Reason",
		"Decided At", "Created At",
	}
	requestHeaders = []string{
		"Request ID", "Requester ID", "Requester Email", "Requester Role", "Items",
		"Description", "Status", "Manager Decision", "Manager Reason",
		"Admin Decision", "Admin Reason", "Created At", "Updated At",
	}
)

func EmployeeWorkbook(rows []EmployeeRow) (*excelize.File, error) {
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = []interface{}{
			r.EmployeeID,
			r.UserID,
			fullName(r.FirstName, r.LastName),
			r.Email,
			r.Role,
			deref(r.DepartmentName),
			r.Designation,
			r.Salary,
			r.Status,
			r.CreatedAt.UTC().Format(timestampLayout),
		}
	}
	return build(EmployeeSheet, employeeHeaders, values)
}

// LeaveWorkbook renders rows into a single-sheet workbook.
func LeaveWorkbook(rows []LeaveRow) (*excelize.File, error) {
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = []interface{}{
			r.LeaveID,
			r.EmployeeID,
			fullName(r.FirstName, r.LastName),
			r.Email,
			r.Role,
			r.LeaveType,
			r.StartDate.Format(validation.DateLayout),
			r.EndDate.Format(validation.DateLayout),
			r.Days(),
			r.Reason,
			r.Status,
			deref(r.RejectionReason),
			formatTime(r.DecidedAt),
			r.CreatedAt.UTC().Format(timestampLayout),
		}
	}
	return build(LeaveSheet, leaveHeaders, values)
}

func RequestWorkbook(rows []RequestRow) (*excelize.File, error) {
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = []interface{}{
			r.RequestID,
			r.RequesterID,
			r.RequesterEmail,
			r.RequesterRole,
			r.Items,
			r.Description,
			r.Status,
			decision(r.ManagerApproved),
			deref(r.ManagerReason),
			decision(r.AdminApproved),
			deref(r.AdminReason),
			r.CreatedAt.UTC().Format(timestampLayout),
			formatTime(r.UpdatedAt),
		}
	}
	return build(RequestSheet, requestHeaders, values)
}

func build(sheet string, headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()

	// rename the default sheet instead of adding a second one
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i := range rows {
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	return f, nil
}

func fullName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decision(approved *bool) string {
	switch {
	case approved == nil:
		return ""
	case *approved:
		return "Approved"
	default:
		return "Rejected"
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
