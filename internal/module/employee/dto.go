package employee

import (
	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
)

// EmployeeIn is the request body of create and update.
type EmployeeIn struct {
	FirstName    string       `json:"first_name" binding:"required,max=100"`
	LastName     string       `json:"last_name" binding:"required,max=100"`
	DepartmentID *uint        `json:"department_id"`
	Birthdate    *domain.Date `json:"birthdate"`
}

// NewEntity builds an Employee from the request.
func (in EmployeeIn) NewEntity() (*domain.Employee, error) {
	return &domain.Employee{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DepartmentID: in.DepartmentID,
		Birthdate:    in.Birthdate,
	}, nil
}

// Changes maps the requested JSON keys to employee columns.
func (in EmployeeIn) Changes(keys ...string) (map[string]any, error) {
	return crud.NewChangeset(keys...).
		Set("first_name", "first_name", in.FirstName).
		Set("last_name", "last_name", in.LastName).
		Set("department_id", "department_id", in.DepartmentID).
		Set("birthdate", "birthdate", in.Birthdate).
		Map(), nil
}

// EmployeeOut is the response shape of an employee.
type EmployeeOut struct {
	ID           uint         `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	DepartmentID *uint        `json:"department_id"`
	Birthdate    *domain.Date `json:"birthdate"`
}

// Project converts an Employee into its response shape.
func Project(e *domain.Employee) EmployeeOut {
	return EmployeeOut{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		DepartmentID: e.DepartmentID,
		Birthdate:    e.Birthdate,
	}
}

// EmployeeFilter is the list query. Names match by substring.
type EmployeeFilter struct {
	FirstName    *string `form:"first_name"`
	LastName     *string `form:"last_name"`
	DepartmentID *uint   `form:"department_id"`
}

// Lookups implements crud.Filter.
func (f EmployeeFilter) Lookups() map[string]any {
	return map[string]any{
		"first_name__contains": f.FirstName,
		"last_name__contains":  f.LastName,
		"department_id":        f.DepartmentID,
	}
}
