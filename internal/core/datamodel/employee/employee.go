package employee

import "time"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type Employee struct {
	ID           int64     `gorm:"column:employee_id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;uniqueIndex;not null"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	DepartmentID *int64    `gorm:"column:department_id"`
	Designation  string    `gorm:"column:designation"`
	Salary       float64   `gorm:"column:salary;type:numeric(12,2)"`
	Status       string    `gorm:"column:status;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
