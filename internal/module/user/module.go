// Package user exposes the account resource used for authentication.
package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
)

// CachePrefix namespaces cached users.
const CachePrefix = "user"

// NewService creates the hard-delete user service.
func NewService(db *gorm.DB) *crud.GenericCRUD[domain.User, *domain.User] {
	return crud.NewGenericCRUD[domain.User](db, crud.Options{Orderable: []string{"id", "username", "email", "create_at", "update_at"}})
}

// UserModule implements the app.Module interface for users.
type UserModule struct {
	svc crud.Service[domain.User]
}

// NewModule creates a new UserModule. Panics if svc is nil.
func NewModule(svc crud.Service[domain.User]) *UserModule {
	if svc == nil {
		panic("user.NewModule: service must not be nil")
	}
	return &UserModule{svc: svc}
}

// RegisterRoutes mounts /users.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup) {
	crud.Register[domain.User, UserIn, UserOut, UserFilter](api, m.svc, crud.Schema[domain.User, UserOut]{
		Path:    "/users",
		Project: Project,
	})
}
