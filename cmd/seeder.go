package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	departmentDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

type seedAccount struct {
	Email       string
	Role        internal.Role
	FirstName   string
	LastName    string
	Designation string
	Department  string
	Salary      float64
	// profileless accounts get no employees row
	Profileless bool
}

var seedAccounts = []seedAccount{
	{Email: "root@mail.com", Role: internal.RoleSuperuser, FirstName: "Root", Profileless: true},
	{Email: "admin@mail.com", Role: internal.RoleAdmin, FirstName: "Padil", LastName: "Admin", Designation: "Administrator", Department: "Administration", Salary: 15000},
	{Email: "hr@mail.com", Role: internal.RoleHR, FirstName: "Hana", LastName: "Rahma", Designation: "HR Officer", Department: "Human Resources", Salary: 9000},
	{Email: "manager@mail.com", Role: internal.RoleManager, FirstName: "Maya", LastName: "Putri", Designation: "Engineering Manager", Department: "Engineering", Salary: 12000},
	{Email: "fadhil@mail.com", Role: internal.RoleEmployee, FirstName: "Fadhil", LastName: "Rahman", Designation: "Software Engineer", Department: "Engineering", Salary: 7000},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed departments and one account per role, with employee profiles, for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if err := seed(ctx, gormDB, hash, clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Printf("Seeded %d accounts, password %q\n", len(seedAccounts), seedPassword)
	},
}

// seed inserts the sample departments and accounts that are missing. With
// clear it first wipes every workflow table.
func seed(ctx context.Context, db *gorm.DB, passwordHash string, clear bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []interface{}{
				&leaveDatamodel.LeaveRequest{},
				&requestDatamodel.Request{},
				&employeeDatamodel.Employee{},
				&departmentDatamodel.Department{},
				&userDatamodel.User{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("clear %T: %w", model, err)
				}
			}
		}

		departments := make(map[string]int64)
		for _, a := range seedAccounts {
			if a.Department == "" || departments[a.Department] != 0 {
				continue
			}
			d := departmentDatamodel.Department{Name: a.Department}
			if err := tx.Where(departmentDatamodel.Department{Name: a.Department}).FirstOrCreate(&d).Error; err != nil {
				return fmt.Errorf("seed department %s: %w", a.Department, err)
			}
			departments[a.Department] = d.ID
		}

		for _, a := range seedAccounts {
			u := userDatamodel.User{
				Username:     a.Email,
				Email:        a.Email,
				PasswordHash: passwordHash,
				Role:         string(a.Role),
				IsActive:     true,
			}
			res := tx.Where(userDatamodel.User{Email: a.Email}).FirstOrCreate(&u)
			if res.Error != nil {
				return fmt.Errorf("seed user %s: %w", a.Email, res.Error)
			}
			if res.RowsAffected > 0 {
				fmt.Println("Seeded user:", a.Email, a.Role)
			}

			if a.Profileless {
				continue
			}
			e := employeeDatamodel.Employee{
				UserID:      u.ID,
				FirstName:   a.FirstName,
				LastName:    a.LastName,
				Designation: a.Designation,
				Salary:      a.Salary,
				Status:      employeeDatamodel.StatusActive,
			}
			if id, ok := departments[a.Department]; ok {
				e.DepartmentID = &id
			}
			if err := tx.Where(employeeDatamodel.Employee{UserID: u.ID}).FirstOrCreate(&e).Error; err != nil {
				return fmt.Errorf("seed employee %s: %w", a.Email, err)
			}
		}
		return nil
	})
}
