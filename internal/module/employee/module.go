// Package employee exposes the employee resource.
package employee

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
)

// CachePrefix namespaces cached employees.
const CachePrefix = "employee"

var orderable = []string{"id", "first_name", "last_name", "department_id", "birthdate", "create_at", "update_at"}

// NewService creates the soft-delete employee service.
func NewService(db *gorm.DB) *crud.SoftDeleteCRUD[domain.Employee, *domain.Employee] {
	return crud.NewSoftDeleteCRUD[domain.Employee](db, crud.Options{Orderable: orderable})
}

// EmployeeModule implements the app.Module interface for employees.
type EmployeeModule struct {
	svc crud.Service[domain.Employee]
}

// NewModule creates a new EmployeeModule. Panics if svc is nil.
func NewModule(svc crud.Service[domain.Employee]) *EmployeeModule {
	if svc == nil {
		panic("employee.NewModule: service must not be nil")
	}
	return &EmployeeModule{svc: svc}
}

// RegisterRoutes mounts /employees.
func (m *EmployeeModule) RegisterRoutes(api *gin.RouterGroup) {
	crud.Register[domain.Employee, EmployeeIn, EmployeeOut, EmployeeFilter](api, m.svc, crud.Schema[domain.Employee, EmployeeOut]{
		Path:    "/employees",
		Project: Project,
	})
}
