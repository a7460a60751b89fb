// Package sqlitetest opens an in-memory SQLite database carrying every
// datamodel table, for repository and handler tests.
package sqlitetest

import (
	departmentDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&departmentDatamodel.Department{},
		&employeeDatamodel.Employee{},
		&leaveDatamodel.LeaveRequest{},
		&requestDatamodel.Request{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUser inserts an active user with the given role and returns it.
func SeedUser(db *gorm.DB, email, role string) (*userDatamodel.User, error) {
	u := &userDatamodel.User{
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	return u, db.Create(u).Error
}

// SeedEmployee inserts a user with the given role plus its employee profile.
func SeedEmployee(db *gorm.DB, email, role, firstName string) (*userDatamodel.User, *employeeDatamodel.Employee, error) {
	u, err := SeedUser(db, email, role)
	if err != nil {
		return nil, nil, err
	}
	e := &employeeDatamodel.Employee{
		UserID:      u.ID,
		FirstName:   firstName,
		LastName:    "Test",
		Designation: role,
		Status:      employeeDatamodel.StatusActive,
	}
	return u, e, db.Create(e).Error
}

func SeedDepartment(db *gorm.DB, name string) (*departmentDatamodel.Department, error) {
	d := &departmentDatamodel.Department{Name: name}
	return d, db.Create(d).Error
}
