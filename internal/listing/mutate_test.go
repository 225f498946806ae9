package listing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type countingCache struct {
	inner         *MemCache
	invalidations []string
}

func newCountingCache() *countingCache {
	return &countingCache{inner: NewMemCache()}
}

func (c *countingCache) Get(ctx context.Context, kind, key string) (*PageResult, bool) {
	return c.inner.Get(ctx, kind, key)
}

func (c *countingCache) Set(ctx context.Context, kind, key string, value *PageResult, ttl time.Duration) {
	c.inner.Set(ctx, kind, key, value, ttl)
}

func (c *countingCache) Invalidate(ctx context.Context, kind string) {
	c.invalidations = append(c.invalidations, kind)
	c.inner.Invalidate(ctx, kind)
}

func TestCreateGeneratesIDAndInvalidates(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{}
	cache := newCountingCache()
	svc := NewService(store, cache, time.Minute)

	id, err := svc.Create(context.Background(), "product", map[string]any{
		"title":    "Modern UI Kit",
		"price":    29.0,
		"isActive": true,
		"bogus":    "dropped",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	if len(store.execSQL) != 1 {
		t.Fatalf("expected one INSERT, got %d", len(store.execSQL))
	}
	sqlStr := store.execSQL[0]
	if !strings.HasPrefix(sqlStr, "INSERT INTO products") {
		t.Fatalf("unexpected SQL: %s", sqlStr)
	}
	for _, col := range []string{"title", "price", "is_active", "id"} {
		if !strings.Contains(sqlStr, col) {
			t.Fatalf("INSERT missing column %s: %s", col, sqlStr)
		}
	}
	if strings.Contains(sqlStr, "bogus") {
		t.Fatalf("unregistered field leaked into INSERT: %s", sqlStr)
	}
	if len(cache.invalidations) != 1 || cache.invalidations[0] != "product" {
		t.Fatalf("expected one product invalidation, got %v", cache.invalidations)
	}
}

func TestCreateKeepsCallerID(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{}
	svc := NewService(store, nil, time.Minute)

	id, err := svc.Create(context.Background(), "product", map[string]any{
		"id":    "prod-1",
		"title": "Icon Pack",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "prod-1" {
		t.Fatalf("id = %q, want prod-1", id)
	}
}

func TestUpdateBuildsWhereByID(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{}
	cache := newCountingCache()
	svc := NewService(store, cache, time.Minute)

	affected, err := svc.Update(context.Background(), "product", "prod-1", map[string]any{
		"price": 19.0,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	sqlStr := store.execSQL[0]
	if !strings.HasPrefix(sqlStr, "UPDATE products SET") {
		t.Fatalf("unexpected SQL: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "WHERE id = ") {
		t.Fatalf("UPDATE missing id predicate: %s", sqlStr)
	}
	if len(cache.invalidations) != 1 {
		t.Fatalf("expected invalidation after update, got %v", cache.invalidations)
	}
}

func TestDeleteByID(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{}
	svc := NewService(store, nil, time.Minute)

	affected, err := svc.Delete(context.Background(), "product", "prod-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}
	if !strings.HasPrefix(store.execSQL[0], "DELETE FROM products WHERE id = ") {
		t.Fatalf("unexpected SQL: %s", store.execSQL[0])
	}
}

func TestMutationsRejectUnknownKind(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, time.Minute)
	ctx := context.Background()

	var cfgErr *ConfigurationError
	if _, err := svc.Create(ctx, "invoice", map[string]any{"x": 1}); !errors.As(err, &cfgErr) {
		t.Fatalf("Create: expected ConfigurationError, got %v", err)
	}
	if _, err := svc.Update(ctx, "invoice", "id", map[string]any{"x": 1}); !errors.As(err, &cfgErr) {
		t.Fatalf("Update: expected ConfigurationError, got %v", err)
	}
	if _, err := svc.Delete(ctx, "invoice", "id"); !errors.As(err, &cfgErr) {
		t.Fatalf("Delete: expected ConfigurationError, got %v", err)
	}
}

func TestMutationStoreFailure(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{fail: true}
	svc := NewService(store, nil, time.Minute)

	_, err := svc.Delete(context.Background(), "product", "prod-1")
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}
