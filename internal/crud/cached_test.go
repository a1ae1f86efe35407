package crud

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"go.uber.org/mock/gomock"

	"github.com/simp-lee/staffdesk/internal/cache"
	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

func newCachedEmployees(t *testing.T) (*Cached[domain.Employee], *MockService[domain.Employee], redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	store := cache.NewStore()
	store.Add(cache.DefaultAlias, rdb)
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	inner := NewMockService[domain.Employee](gomock.NewController(t))
	c := NewCached[domain.Employee](inner, store, "", "employee", time.Minute)
	c.schedule = func(time.Duration, func()) {}
	return c, inner, mock
}

func TestCached_GetMissLoadsAndStores(t *testing.T) {
	c, inner, mock := newCachedEmployees(t)
	mock.ExpectGet("employee:1").RedisNil()
	mock.Regexp().ExpectSet("employee:1", `.*`, time.Minute).SetVal("OK")
	inner.EXPECT().Get(gomock.Any(), uint(1)).Return(pkg.OK(&domain.Employee{FirstName: "John"}), nil)

	res, err := c.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Data == nil || res.Data.FirstName != "John" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestCached_GetHitSkipsService(t *testing.T) {
	c, _, mock := newCachedEmployees(t)
	mock.ExpectGet("employee:2").SetVal(`{"id":2,"first_name":"Jane","last_name":"Roe"}`)

	res, err := c.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Data == nil || res.Data.ID != 2 || res.Data.LastName != "Roe" {
		t.Errorf("unexpected result %+v", res.Data)
	}
}

func TestCached_AbsentRecordIsNotStored(t *testing.T) {
	c, inner, mock := newCachedEmployees(t)
	mock.ExpectGet("employee:3").RedisNil()
	inner.EXPECT().Get(gomock.Any(), uint(3)).Return(pkg.OK[*domain.Employee](nil), nil)

	res, err := c.Get(context.Background(), 3)
	if err != nil || !res.Success || res.Data != nil {
		t.Errorf("expected success with nil data, got %+v, %v", res, err)
	}
}

func TestCached_GetPropagatesServiceError(t *testing.T) {
	c, inner, mock := newCachedEmployees(t)
	mock.ExpectGet("employee:4").RedisNil()
	inner.EXPECT().Get(gomock.Any(), uint(4)).Return(pkg.Result[*domain.Employee]{}, domain.ErrNotFound)

	if _, err := c.Get(context.Background(), 4); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCached_WritesInvalidate(t *testing.T) {
	c, inner, mock := newCachedEmployees(t)
	ctx := context.Background()

	inner.EXPECT().Update(gomock.Any(), uint(5), gomock.Any(), "bob").Return(pkg.OK(pkg.Updated(5)), nil)
	inner.EXPECT().PartialUpdate(gomock.Any(), uint(5), "bob", gomock.Any()).Return(pkg.OK(pkg.Updated(5)), nil)
	inner.EXPECT().Delete(gomock.Any(), uint(5)).Return(pkg.OK(true), nil)
	mock.ExpectDel("employee:5").SetVal(1)
	mock.ExpectDel("employee:5").SetVal(0)
	mock.ExpectDel("employee:5").SetVal(0)

	if _, err := c.Update(ctx, 5, map[string]any{"first_name": "X"}, "bob"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := c.PartialUpdate(ctx, 5, "bob", map[string]any{"first_name": "Y"}); err != nil {
		t.Fatalf("PartialUpdate: %v", err)
	}
	if res, err := c.Delete(ctx, 5); err != nil || !res.Data {
		t.Fatalf("Delete: %+v, %v", res, err)
	}
}

func TestCached_SecondDropClearsStaleReload(t *testing.T) {
	c, inner, mock := newCachedEmployees(t)
	ctx, cancel := context.WithCancel(context.Background())

	var delays []time.Duration
	var pending []func()
	c.schedule = func(d time.Duration, f func()) {
		delays = append(delays, d)
		pending = append(pending, f)
	}

	// A reader missed before the delete and stores the old row after the
	// first drop.
	inner.EXPECT().Delete(gomock.Any(), uint(6)).Return(pkg.OK(true), nil)
	mock.ExpectDel("employee:6").SetVal(0)
	mock.ExpectGet("employee:6").RedisNil()
	inner.EXPECT().Get(gomock.Any(), uint(6)).Return(pkg.OK(&domain.Employee{FirstName: "Stale"}), nil)
	mock.Regexp().ExpectSet("employee:6", `Stale`, time.Minute).SetVal("OK")

	if res, err := c.Delete(ctx, 6); err != nil || !res.Data {
		t.Fatalf("Delete: %+v, %v", res, err)
	}
	if _, err := c.Get(context.Background(), 6); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(pending) != 1 || delays[0] != redeleteDelay {
		t.Fatalf("scheduled %v, want one drop after %v", delays, redeleteDelay)
	}

	// The request has finished by the time the second drop runs.
	cancel()
	mock.ExpectDel("employee:6").SetVal(1)
	pending[0]()

	mock.ExpectGet("employee:6").RedisNil()
	inner.EXPECT().Get(gomock.Any(), uint(6)).Return(pkg.OK[*domain.Employee](nil), nil)
	res, err := c.Get(context.Background(), 6)
	if err != nil || res.Data != nil {
		t.Fatalf("Get after second drop = %+v, %v, want the deleted row gone", res.Data, err)
	}
}

func TestCached_CreateValidateUniqueFallsBackToCreate(t *testing.T) {
	c, inner, _ := newCachedEmployees(t)
	inner.EXPECT().Create(gomock.Any(), gomock.Any(), "bob").Return(pkg.OK(&pkg.IDRef{ID: 8}))

	res, err := c.CreateValidateUnique(context.Background(), &domain.Employee{FirstName: "A"}, "bob")
	if err != nil || res.Data == nil || res.Data.ID != 8 {
		t.Errorf("unexpected result %+v, %v", res, err)
	}
}

func TestCached_Key(t *testing.T) {
	c, _, _ := newCachedEmployees(t)
	if got := c.Key(12); got != "employee:12" {
		t.Errorf("Key(12) = %q", got)
	}
}
