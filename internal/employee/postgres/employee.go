package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	departmentDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-management/internal/employee"
	"github.com/frahmantamala/employee-management/internal/user"
	userPostgres "github.com/frahmantamala/employee-management/internal/user/postgres"
	"gorm.io/gorm"
)

const employeeColumns = "e.employee_id, e.user_id, e.first_name, e.last_name, e.department_id, " +
	"d.department_name, e.designation, e.salary, e.status, e.created_at, u.email, u.role"

type employeeRow struct {
	EmployeeID     int64
	UserID         int64
	FirstName      string
	LastName       string
	DepartmentID   *int64
	DepartmentName *string
	Designation    string
	Salary         float64
	Status         string
	CreatedAt      time.Time
	Email          string
	Role           string
}

func (r employeeRow) toDomain() *employee.Employee {
	return &employee.Employee{
		ID:             r.EmployeeID,
		UserID:         r.UserID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		Designation:    r.Designation,
		Salary:         r.Salary,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		Email:          r.Email,
		Role:           internal.Role(r.Role),
	}
}

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, u *user.User, e *employee.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkDepartment(tx, e.DepartmentID); err != nil {
			return err
		}
		if err := userPostgres.CreateUser(tx, u); err != nil {
			return err
		}

		e.UserID = u.ID
		dm := employee.ToDataModel(e)
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		e.ID = dm.ID
		e.CreatedAt = dm.CreatedAt
		return nil
	})
}

func (r *EmployeeRepository) GetByID(ctx context.Context, employeeID int64) (*employee.Employee, error) {
	return r.first(ctx, "e.employee_id = ?", employeeID)
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	return r.first(ctx, "e.user_id = ?", userID)
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var rows []employeeRow
	err := r.base(ctx).Order("e.employee_id ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*employee.Employee, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkDepartment(tx, e.DepartmentID); err != nil {
			return err
		}

		res := tx.Model(&employeeDatamodel.Employee{}).
			Where("employee_id = ?", e.ID).
			Updates(map[string]interface{}{
				"first_name":    e.FirstName,
				"last_name":     e.LastName,
				"department_id": e.DepartmentID,
				"designation":   e.Designation,
				"salary":        e.Salary,
				"status":        e.Status,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrEmployeeNotFound
		}
		return nil
	})
}

func (r *EmployeeRepository) Delete(ctx context.Context, employeeID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e employeeDatamodel.Employee
		if err := tx.Where("employee_id = ?", employeeID).First(&e).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrEmployeeNotFound
			}
			return err
		}

		if err := tx.Where("employee_id = ?", e.ID).Delete(&leaveDatamodel.LeaveRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("requester_id = ?", e.UserID).Delete(&requestDatamodel.Request{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", e.ID).Delete(&employeeDatamodel.Employee{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", e.UserID).Delete(&userDatamodel.User{}).Error
	})
}

func (r *EmployeeRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("employees AS e").
		Select(employeeColumns).
		Joins("JOIN users AS u ON u.id = e.user_id").
		Joins("LEFT JOIN departments AS d ON d.department_id = e.department_id")
}

func (r *EmployeeRepository) first(ctx context.Context, cond string, arg interface{}) (*employee.Employee, error) {
	var rows []employeeRow
	if err := r.base(ctx).Where(cond, arg).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrEmployeeNotFound
	}
	return rows[0].toDomain(), nil
}

func checkDepartment(tx *gorm.DB, departmentID *int64) error {
	if departmentID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&departmentDatamodel.Department{}).Where("department_id = ?", *departmentID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return internal.ErrDepartmentNotFound
	}
	return nil
}
