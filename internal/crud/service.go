// Package crud provides generic persistence services for audited entities
// and mounts them as REST endpoints.
package crud

//go:generate mockgen -source=service.go -destination=mock_service_test.go -package=crud -exclude_interfaces=Entity,UniqueKeyer

import (
	"context"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// Entity is satisfied by pointers to structs embedding domain.AuditModel.
type Entity[E any] interface {
	*E
	Identity() uint
	SetCreator(actor string)
}

// Service is the CRUD contract driven by the route registrar.
//
// Create never returns an error: persistence failures are reported in the
// envelope. The other operations return an error for failures that map to a
// non-200 status, such as a missing record in the hard-delete variant or an
// unexpected database error.
type Service[E any] interface {
	Create(ctx context.Context, entity *E, actor string) pkg.Result[*pkg.IDRef]
	Get(ctx context.Context, id uint) (pkg.Result[*E], error)
	List(ctx context.Context, filter map[string]any, page pkg.PageQuery) (pkg.Result[*domain.Page[E]], error)
	Update(ctx context.Context, id uint, fields map[string]any, actor string) (pkg.Result[pkg.UpdateResult], error)
	PartialUpdate(ctx context.Context, id uint, actor string, fields map[string]any) (pkg.Result[pkg.UpdateResult], error)
	Delete(ctx context.Context, id uint) (pkg.Result[bool], error)
}

// UniqueCreator creates an entity after checking its unique column groups
// among live rows. A violation is returned as a CodeAlreadyExists error.
type UniqueCreator[E any] interface {
	CreateValidateUnique(ctx context.Context, entity *E, actor string, exclude ...string) (pkg.Result[*pkg.IDRef], error)
}

// UniqueKeyer is implemented by entities that declare unique column groups.
type UniqueKeyer interface {
	UniqueKeys() []map[string]any
}

// Options configures a service.
type Options struct {
	// Orderable lists the columns a list request may sort by.
	Orderable []string
}

// protectedColumns are never written by an update.
var protectedColumns = []string{"id", "creator", "create_at", "is_deleted"}
