package crud

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// table holds what both service variants share: the handle, the entity
// name used in logs and messages, and whether rows carry is_deleted.
type table[E any, P Entity[E]] struct {
	db        *gorm.DB
	name      string
	orderable []string
	soft      bool
}

func newTable[E any, P Entity[E]](db *gorm.DB, opts Options, soft bool) table[E, P] {
	return table[E, P]{
		db:        db,
		name:      strings.ToLower(reflect.TypeOf((*E)(nil)).Elem().Name()),
		orderable: opts.Orderable,
		soft:      soft,
	}
}

// scope restricts a query to live rows in the soft-delete variant.
func (t table[E, P]) scope(db *gorm.DB) *gorm.DB {
	if t.soft {
		return db.Where("is_deleted = ?", domain.LiveMarker)
	}
	return db
}

func (t table[E, P]) create(ctx context.Context, entity *E, actor string) pkg.Result[*pkg.IDRef] {
	P(entity).SetCreator(actor)
	if err := t.db.WithContext(ctx).Create(entity).Error; err != nil {
		err = MapError(err)
		slog.WarnContext(ctx, "create failed", "entity", t.name, "error", err)
		return pkg.Fail[*pkg.IDRef](err.Error(), nil)
	}
	id := P(entity).Identity()
	slog.InfoContext(ctx, "record created", "entity", t.name, "id", id, "actor", actor)
	return pkg.OK(&pkg.IDRef{ID: id})
}

// load fetches one row by id, honoring the live scope. found is false when
// the row does not exist.
func (t table[E, P]) load(db *gorm.DB, id uint) (entity *E, found bool, err error) {
	var e E
	if err := t.scope(db).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, MapError(err)
	}
	return &e, true, nil
}

func (t table[E, P]) list(ctx context.Context, filter map[string]any, page pkg.PageQuery) (pkg.Result[*domain.Page[E]], error) {
	query := t.scope(t.db.WithContext(ctx).Model(new(E)).Scopes(pkg.Lookups(filter)))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pkg.Result[*domain.Page[E]]{}, MapError(err)
	}

	items := make([]E, 0, page.PageSize)
	if err := query.Session(&gorm.Session{}).Scopes(
		pkg.Order(page.Ordering, t.orderable),
		pkg.Paginate(page),
	).Find(&items).Error; err != nil {
		return pkg.Result[*domain.Page[E]]{}, MapError(err)
	}

	return pkg.OK(&domain.Page[E]{
		Total:     total,
		PageSize:  page.PageSize,
		PageIndex: pkg.NormalizePageIndex(page.PageIndex),
		Details:   items,
	}), nil
}

// update applies fields to the row inside a transaction. missing reports an
// absent row; a failed write is returned as a Failed envelope and rolled back.
func (t table[E, P]) update(ctx context.Context, id uint, fields map[string]any, actor string) (res pkg.Result[pkg.UpdateResult], missing bool, err error) {
	values := maps.Clone(fields)
	if values == nil {
		values = make(map[string]any, 1)
	}
	for _, col := range protectedColumns {
		delete(values, col)
	}
	values["updater"] = actor

	var saveErr error
	err = pkg.WithTx(ctx, t.db, func(tx *gorm.DB) error {
		entity, found, err := t.load(tx, id)
		if err != nil {
			return err
		}
		if !found {
			missing = true
			return nil
		}
		// The write repeats the live scope: a soft delete committed after
		// load leaves nothing to update.
		res := t.scope(tx.Model(entity)).Updates(values)
		if res.Error != nil {
			saveErr = MapError(res.Error)
			return saveErr
		}
		if res.RowsAffected == 0 {
			missing = true
		}
		return nil
	})
	switch {
	case saveErr != nil:
		slog.WarnContext(ctx, "update failed", "entity", t.name, "id", id, "error", saveErr)
		return pkg.Fail(saveErr.Error(), pkg.Failed()), false, nil
	case err != nil:
		return pkg.Result[pkg.UpdateResult]{}, false, err
	case missing:
		return pkg.Result[pkg.UpdateResult]{}, true, nil
	}

	slog.InfoContext(ctx, "record updated", "entity", t.name, "id", id, "actor", actor, "fields", slices.Sorted(maps.Keys(values)))
	return pkg.OK(pkg.Updated(id)), false, nil
}
