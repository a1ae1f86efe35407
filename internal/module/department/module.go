// Package department exposes the department resource and seeds the initial
// department list.
package department

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// CachePrefix namespaces cached departments.
const CachePrefix = "department"

// SeedActor is recorded as creator of seeded departments.
const SeedActor = "system"

// Service is the department service: CRUD with unique create.
type Service interface {
	crud.Service[domain.Department]
	crud.UniqueCreator[domain.Department]
}

// NewService creates the soft-delete department service.
func NewService(db *gorm.DB) *crud.SoftDeleteCRUD[domain.Department, *domain.Department] {
	return crud.NewSoftDeleteCRUD[domain.Department](db, crud.Options{Orderable: []string{"id", "title", "create_at", "update_at"}})
}

// Seed inserts the titles that have no live department yet.
func Seed(ctx context.Context, svc *crud.SoftDeleteCRUD[domain.Department, *domain.Department], titles []string) error {
	if len(titles) == 0 {
		return nil
	}

	res, err := svc.List(ctx, map[string]any{"title__in": titles}, pkg.PageQuery{PageIndex: 1, PageSize: len(titles)})
	if err != nil {
		return fmt.Errorf("load existing departments: %w", err)
	}
	have := make(map[string]bool, len(titles))
	for _, d := range res.Data.Details {
		have[d.Title] = true
	}

	var missing []*domain.Department
	for _, t := range titles {
		if have[t] {
			continue
		}
		have[t] = true
		missing = append(missing, &domain.Department{Title: t})
	}
	if len(missing) == 0 {
		return nil
	}
	if err := svc.BulkCreate(ctx, missing, SeedActor); err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}
	slog.InfoContext(ctx, "departments seeded", "count", len(missing))
	return nil
}

// DepartmentModule implements the app.Module interface for departments.
type DepartmentModule struct {
	svc Service
}

// NewModule creates a new DepartmentModule. Panics if svc is nil.
func NewModule(svc Service) *DepartmentModule {
	if svc == nil {
		panic("department.NewModule: service must not be nil")
	}
	return &DepartmentModule{svc: svc}
}

// RegisterRoutes mounts /departments. Create rejects a title held by a live
// department with 409.
func (m *DepartmentModule) RegisterRoutes(api *gin.RouterGroup) {
	crud.Register[domain.Department, DepartmentIn, DepartmentOut, DepartmentFilter](api, m.svc, crud.Schema[domain.Department, DepartmentOut]{
		Path:           "/departments",
		Project:        Project,
		ValidateUnique: true,
	})
}
