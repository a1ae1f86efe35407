package domain

// Employee is a staff record.
type Employee struct {
	SoftDeleteModel
	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	DepartmentID *uint  `gorm:"index" json:"department_id"`
	Birthdate    *Date  `json:"birthdate"`
}
