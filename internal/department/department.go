package department

import (
	departmentDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/department"
)

type Department struct {
	ID          int64   `json:"department_id"`
	Name        string  `json:"department_name"`
	Description *string `json:"description"`
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}
