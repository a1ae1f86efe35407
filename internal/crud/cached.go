package crud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/simp-lee/staffdesk/internal/cache"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// redeleteDelay is how long after a write the entry for the written id is
// dropped a second time. A Get that loaded the row before the write and
// stored it after the first drop is cleared by the second.
const redeleteDelay = 500 * time.Millisecond

// Cached decorates a Service with read-through caching of Get. The entry
// for an id is dropped after every update or delete of that id, and again
// redeleteDelay later.
type Cached[E any] struct {
	Service[E]
	store    *cache.Store
	alias    string
	prefix   string
	ttl      time.Duration
	schedule func(time.Duration, func())
}

// NewCached wraps svc. Entries live under "<prefix>:<id>" on the aliased
// redis client for ttl.
func NewCached[E any](svc Service[E], store *cache.Store, alias, prefix string, ttl time.Duration) *Cached[E] {
	return &Cached[E]{
		Service:  svc,
		store:    store,
		alias:    alias,
		prefix:   prefix,
		ttl:      ttl,
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Key returns the cache key for id.
func (c *Cached[E]) Key(id uint) string {
	return fmt.Sprintf("%s:%d", c.prefix, id)
}

// Get returns the cached entity or loads it from the wrapped service.
func (c *Cached[E]) Get(ctx context.Context, id uint) (pkg.Result[*E], error) {
	entity, err := cache.GetOrCompute(ctx, c.store, c.ttl, c.alias, c.Key(id), func(ctx context.Context) (*E, error) {
		res, err := c.Service.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	})
	if err != nil {
		return pkg.Result[*E]{}, err
	}
	return pkg.OK(entity), nil
}

// Update forwards to the wrapped service and drops the cached entry.
func (c *Cached[E]) Update(ctx context.Context, id uint, fields map[string]any, actor string) (pkg.Result[pkg.UpdateResult], error) {
	res, err := c.Service.Update(ctx, id, fields, actor)
	c.invalidate(ctx, id)
	return res, err
}

// PartialUpdate forwards to the wrapped service and drops the cached entry.
func (c *Cached[E]) PartialUpdate(ctx context.Context, id uint, actor string, fields map[string]any) (pkg.Result[pkg.UpdateResult], error) {
	res, err := c.Service.PartialUpdate(ctx, id, actor, fields)
	c.invalidate(ctx, id)
	return res, err
}

// Delete forwards to the wrapped service and drops the cached entry.
func (c *Cached[E]) Delete(ctx context.Context, id uint) (pkg.Result[bool], error) {
	res, err := c.Service.Delete(ctx, id)
	c.invalidate(ctx, id)
	return res, err
}

// CreateValidateUnique forwards to the wrapped service when it checks
// uniqueness, and falls back to Create otherwise.
func (c *Cached[E]) CreateValidateUnique(ctx context.Context, entity *E, actor string, exclude ...string) (pkg.Result[*pkg.IDRef], error) {
	if u, ok := c.Service.(UniqueCreator[E]); ok {
		return u.CreateValidateUnique(ctx, entity, actor, exclude...)
	}
	return c.Service.Create(ctx, entity, actor), nil
}

func (c *Cached[E]) invalidate(ctx context.Context, id uint) {
	c.drop(ctx, id)
	later := context.WithoutCancel(ctx)
	c.schedule(redeleteDelay, func() { c.drop(later, id) })
}

func (c *Cached[E]) drop(ctx context.Context, id uint) {
	if err := c.store.Delete(ctx, c.alias, c.Key(id)); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "key", c.Key(id), "error", err)
	}
}
