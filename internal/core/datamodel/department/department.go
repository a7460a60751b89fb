package department

type Department struct {
	ID          int64   `gorm:"column:department_id;primaryKey"`
	Name        string  `gorm:"column:department_name;not null"`
	Description *string `gorm:"column:description"`
}

func (Department) TableName() string {
	return "departments"
}
