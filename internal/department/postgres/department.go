package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/employee-management/internal"
	departmentDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-management/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	dm := department.ToDataModel(d)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	d.ID = dm.ID
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*department.Department, error) {
	var dm departmentDatamodel.Department
	if err := r.db.WithContext(ctx).Where("department_id = ?", id).First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDepartmentNotFound
		}
		return nil, err
	}
	return department.FromDataModel(&dm), nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	var rows []departmentDatamodel.Department
	if err := r.db.WithContext(ctx).Order("department_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*department.Department, len(rows))
	for i := range rows {
		result[i] = department.FromDataModel(&rows[i])
	}
	return result, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) error {
	res := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("department_id = ?", d.ID).
		Updates(map[string]interface{}{
			"department_name": d.Name,
			"description":     d.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dm departmentDatamodel.Department
		if err := tx.Where("department_id = ?", id).First(&dm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrDepartmentNotFound
			}
			return err
		}

		var assigned int64
		if err := tx.Model(&employeeDatamodel.Employee{}).Where("department_id = ?", id).Count(&assigned).Error; err != nil {
			return err
		}
		if assigned > 0 {
			return internal.ErrDepartmentInUse
		}

		return tx.Where("department_id = ?", id).Delete(&departmentDatamodel.Department{}).Error
	})
}
