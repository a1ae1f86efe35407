package department

import (
	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
)

// DepartmentIn is the request body of create and update.
type DepartmentIn struct {
	Title string `json:"title" binding:"required,max=100"`
}

func (in DepartmentIn) NewEntity() (*domain.Department, error) {
	return &domain.Department{Title: in.Title}, nil
}

func (in DepartmentIn) Changes(keys ...string) (map[string]any, error) {
	return crud.NewChangeset(keys...).Set("title", "title", in.Title).Map(), nil
}

// DepartmentOut is the response shape of a department.
type DepartmentOut struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func Project(d *domain.Department) DepartmentOut {
	return DepartmentOut{ID: d.ID, Title: d.Title}
}

// DepartmentFilter matches titles by substring.
type DepartmentFilter struct {
	Title *string `form:"title"`
}

func (f DepartmentFilter) Lookups() map[string]any {
	return map[string]any{"title__contains": f.Title}
}
