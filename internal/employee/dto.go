package employee

import (
	"strings"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
)

// CreateEmployeeDTO creates a login and its employee profile together.
type CreateEmployeeDTO struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	DepartmentID *int64  `json:"department_id,omitempty"`
	Designation  string  `json:"designation"`
	Salary       float64 `json:"salary"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	if d.Role == "" {
		d.Role = string(internal.RoleEmployee)
	}
	if d.Username == "" {
		d.Username = d.Email
	}
}

func (d CreateEmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("role", d.Role).Required().Role()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).MaxLength(100)
	v.Field("designation", d.Designation).MaxLength(100)
	v.Field("salary", d.Salary).Custom(func(value interface{}) *internal.AppError {
		if s, ok := value.(float64); ok && s < 0 {
			return internal.NewValidationFieldError("salary", "salary must not be negative", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}

// UpdateEmployeeDTO changes profile fields. Nil fields keep their value and a
// department_id of 0 removes the employee from their department.
type UpdateEmployeeDTO struct {
	FirstName    *string  `json:"first_name,omitempty"`
	LastName     *string  `json:"last_name,omitempty"`
	DepartmentID *int64   `json:"department_id,omitempty"`
	Designation  *string  `json:"designation,omitempty"`
	Salary       *float64 `json:"salary,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

func (d *UpdateEmployeeDTO) Normalize() {
	for _, field := range []*string{d.FirstName, d.LastName, d.Designation, d.Status} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

func (d UpdateEmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.FirstName != nil {
		v.Field("first_name", *d.FirstName).Required().MaxLength(100)
	}
	if d.LastName != nil {
		v.Field("last_name", *d.LastName).MaxLength(100)
	}
	if d.Designation != nil {
		v.Field("designation", *d.Designation).MaxLength(100)
	}
	if d.Salary != nil && *d.Salary < 0 {
		v.Field("salary", *d.Salary).Custom(func(interface{}) *internal.AppError {
			return internal.NewValidationFieldError("salary", "salary must not be negative", internal.ErrCodeValidationFailed)
		})
	}
	if d.Status != nil {
		v.Field("status", *d.Status).Custom(func(value interface{}) *internal.AppError {
			switch value {
			case employeeDatamodel.StatusActive, employeeDatamodel.StatusInactive:
				return nil
			}
			return internal.NewValidationFieldError("status", "status must be Active or Inactive", internal.ErrCodeValidationFailed)
		})
	}
	if d.DepartmentID != nil && *d.DepartmentID < 0 {
		v.Field("department_id", *d.DepartmentID).Custom(func(interface{}) *internal.AppError {
			return internal.NewValidationFieldError("department_id", "department_id must not be negative", internal.ErrCodeValidationFailed)
		})
	}
	return v.Validate()
}

// Apply copies the set fields onto e.
func (d UpdateEmployeeDTO) Apply(e *Employee) {
	if d.FirstName != nil {
		e.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		e.LastName = *d.LastName
	}
	if d.DepartmentID != nil {
		if *d.DepartmentID == 0 {
			e.DepartmentID = nil
		} else {
			id := *d.DepartmentID
			e.DepartmentID = &id
		}
	}
	if d.Designation != nil {
		e.Designation = *d.Designation
	}
	if d.Salary != nil {
		e.Salary = *d.Salary
	}
	if d.Status != nil {
		e.Status = *d.Status
	}
}
