package crud

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// GenericCRUD serves an entity whose rows are removed with a real delete.
// A missing record is reported as domain.ErrNotFound.
type GenericCRUD[E any, P Entity[E]] struct {
	t table[E, P]
}

var _ Service[domain.User] = (*GenericCRUD[domain.User, *domain.User])(nil)

// NewGenericCRUD creates a hard-delete service for E.
func NewGenericCRUD[E any, P Entity[E]](db *gorm.DB, opts Options) *GenericCRUD[E, P] {
	return &GenericCRUD[E, P]{t: newTable[E, P](db, opts, false)}
}

// Create sets the creator and persists entity.
func (s *GenericCRUD[E, P]) Create(ctx context.Context, entity *E, actor string) pkg.Result[*pkg.IDRef] {
	return s.t.create(ctx, entity, actor)
}

// Get returns the entity with the given id.
func (s *GenericCRUD[E, P]) Get(ctx context.Context, id uint) (pkg.Result[*E], error) {
	entity, found, err := s.t.load(s.t.db.WithContext(ctx), id)
	if err != nil {
		return pkg.Result[*E]{}, err
	}
	if !found {
		return pkg.Result[*E]{}, domain.ErrNotFound
	}
	return pkg.OK(entity), nil
}

// List returns one page of entities matching filter.
func (s *GenericCRUD[E, P]) List(ctx context.Context, filter map[string]any, page pkg.PageQuery) (pkg.Result[*domain.Page[E]], error) {
	return s.t.list(ctx, filter, page)
}

// Update writes every field in fields.
func (s *GenericCRUD[E, P]) Update(ctx context.Context, id uint, fields map[string]any, actor string) (pkg.Result[pkg.UpdateResult], error) {
	res, missing, err := s.t.update(ctx, id, fields, actor)
	if err != nil {
		return res, err
	}
	if missing {
		return res, domain.ErrNotFound
	}
	return res, nil
}

// PartialUpdate writes only the supplied fields.
func (s *GenericCRUD[E, P]) PartialUpdate(ctx context.Context, id uint, actor string, fields map[string]any) (pkg.Result[pkg.UpdateResult], error) {
	return s.Update(ctx, id, fields, actor)
}

// Delete removes the row.
func (s *GenericCRUD[E, P]) Delete(ctx context.Context, id uint) (pkg.Result[bool], error) {
	result := s.t.db.WithContext(ctx).Delete(new(E), id)
	if result.Error != nil {
		return pkg.Result[bool]{}, MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkg.Result[bool]{}, domain.ErrNotFound
	}
	slog.InfoContext(ctx, "record deleted", "entity", s.t.name, "id", id)
	return pkg.OK(true), nil
}
