package crud

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// SoftDeleteCRUD serves an entity whose rows are retired by writing a fresh
// token into is_deleted. Every read and write sees live rows only, and a
// missing record is reported in the envelope rather than as an error.
type SoftDeleteCRUD[E any, P Entity[E]] struct {
	t table[E, P]
}

var (
	_ Service[domain.Employee]         = (*SoftDeleteCRUD[domain.Employee, *domain.Employee])(nil)
	_ UniqueCreator[domain.Department] = (*SoftDeleteCRUD[domain.Department, *domain.Department])(nil)
)

// NewSoftDeleteCRUD creates a soft-delete service for E. The table must have
// an is_deleted column.
func NewSoftDeleteCRUD[E any, P Entity[E]](db *gorm.DB, opts Options) *SoftDeleteCRUD[E, P] {
	return &SoftDeleteCRUD[E, P]{t: newTable[E, P](db, opts, true)}
}

// Create sets the creator and persists entity as a live row.
func (s *SoftDeleteCRUD[E, P]) Create(ctx context.Context, entity *E, actor string) pkg.Result[*pkg.IDRef] {
	return s.t.create(ctx, entity, actor)
}

// CreateValidateUnique rejects entity when one of its unique column groups,
// minus the exclude columns, already matches a live row. Otherwise it
// behaves like Create.
func (s *SoftDeleteCRUD[E, P]) CreateValidateUnique(ctx context.Context, entity *E, actor string, exclude ...string) (pkg.Result[*pkg.IDRef], error) {
	keyer, ok := any(entity).(UniqueKeyer)
	if !ok {
		return s.Create(ctx, entity, actor), nil
	}

	db := s.t.db.WithContext(ctx)
	for _, group := range keyer.UniqueKeys() {
		cols := maps.Clone(group)
		for _, col := range exclude {
			delete(cols, col)
		}
		if len(cols) == 0 {
			continue
		}

		var count int64
		if err := s.t.scope(db.Model(new(E))).Where(cols).Count(&count).Error; err != nil {
			return pkg.Result[*pkg.IDRef]{}, MapError(err)
		}
		if count > 0 {
			names := slices.Sorted(maps.Keys(cols))
			msg := fmt.Sprintf("%s with this %s already exists", s.t.name, strings.Join(names, " and "))
			slog.WarnContext(ctx, "unique check failed", "entity", s.t.name, "columns", names)
			return pkg.Result[*pkg.IDRef]{}, domain.NewAppError(domain.CodeAlreadyExists, msg, nil)
		}
	}
	return s.Create(ctx, entity, actor), nil
}

// BulkCreate inserts entities in one transaction.
func (s *SoftDeleteCRUD[E, P]) BulkCreate(ctx context.Context, entities []*E, actor string) error {
	if len(entities) == 0 {
		return nil
	}
	for _, e := range entities {
		P(e).SetCreator(actor)
	}
	err := pkg.WithTx(ctx, s.t.db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(entities, 100).Error
	})
	if err != nil {
		return MapError(err)
	}
	slog.InfoContext(ctx, "records created", "entity", s.t.name, "count", len(entities), "actor", actor)
	return nil
}

// Get returns the live entity with the given id, or a nil Data when absent.
func (s *SoftDeleteCRUD[E, P]) Get(ctx context.Context, id uint) (pkg.Result[*E], error) {
	entity, _, err := s.t.load(s.t.db.WithContext(ctx), id)
	if err != nil {
		return pkg.Result[*E]{}, err
	}
	return pkg.OK(entity), nil
}

// List returns one page of live entities matching filter.
func (s *SoftDeleteCRUD[E, P]) List(ctx context.Context, filter map[string]any, page pkg.PageQuery) (pkg.Result[*domain.Page[E]], error) {
	return s.t.list(ctx, filter, page)
}

// Update writes every field in fields to the live row.
func (s *SoftDeleteCRUD[E, P]) Update(ctx context.Context, id uint, fields map[string]any, actor string) (pkg.Result[pkg.UpdateResult], error) {
	res, missing, err := s.t.update(ctx, id, fields, actor)
	if err != nil {
		return res, err
	}
	if missing {
		return pkg.Fail(notExist(id), pkg.Missing()), nil
	}
	return res, nil
}

// PartialUpdate writes only the supplied fields to the live row.
func (s *SoftDeleteCRUD[E, P]) PartialUpdate(ctx context.Context, id uint, actor string, fields map[string]any) (pkg.Result[pkg.UpdateResult], error) {
	return s.Update(ctx, id, fields, actor)
}

// Delete retires the live row under a fresh UUIDv7 token. Deleting an
// absent or already retired row reports false.
func (s *SoftDeleteCRUD[E, P]) Delete(ctx context.Context, id uint) (pkg.Result[bool], error) {
	token, err := uuid.NewV7()
	if err != nil {
		return pkg.Result[bool]{}, domain.NewAppError(domain.CodeInternal, "delete token", err)
	}
	marker, err := domain.DeletedWith(token.String())
	if err != nil {
		return pkg.Result[bool]{}, domain.NewAppError(domain.CodeInternal, "delete token", err)
	}

	result := s.t.scope(s.t.db.WithContext(ctx).Model(new(E))).
		Where("id = ?", id).
		Update("is_deleted", marker)
	if result.Error != nil {
		return pkg.Result[bool]{}, MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkg.Fail(notExist(id), false), nil
	}
	slog.InfoContext(ctx, "record retired", "entity", s.t.name, "id", id, "token", marker.Token())
	return pkg.OK(true), nil
}
