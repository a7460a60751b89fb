package employee

import (
	"time"

	"github.com/frahmantamala/employee-management/internal"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
)

// Employee is an HR profile. Email and Role come from the linked user and
// DepartmentName from the department, when one is set.
type Employee struct {
	ID             int64         `json:"employee_id"`
	UserID         int64         `json:"user_id"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	DepartmentID   *int64        `json:"department_id,omitempty"`
	DepartmentName *string       `json:"department_name,omitempty"`
	Designation    string        `json:"designation"`
	Salary         float64       `json:"salary"`
	Status         string        `json:"status"`
	Email          string        `json:"email"`
	Role           internal.Role `json:"role"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		UserID:       e.UserID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		DepartmentID: e.DepartmentID,
		Designation:  e.Designation,
		Salary:       e.Salary,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		UserID:       e.UserID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		DepartmentID: e.DepartmentID,
		Designation:  e.Designation,
		Salary:       e.Salary,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
	}
}
