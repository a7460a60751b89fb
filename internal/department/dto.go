package department

import (
	"strings"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

// DepartmentDTO is the body of both create and update.
type DepartmentDTO struct {
	Name        string  `json:"department_name"`
	Description *string `json:"description,omitempty"`
}

func (d *DepartmentDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	if d.Description != nil {
		trimmed := strings.TrimSpace(*d.Description)
		if trimmed == "" {
			d.Description = nil
		} else {
			d.Description = &trimmed
		}
	}
}

func (d DepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("department_name", d.Name).Required().MaxLength(100)
	return v.Validate()
}
