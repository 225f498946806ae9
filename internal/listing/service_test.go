package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func productRows(n int) []map[string]any {
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]any{
			"id":    string(rune('a' + i)),
			"title": "Asset",
			"price": float64(i),
		})
	}
	return rows
}

func TestListUnknownKindIsConfigurationError(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, time.Minute)

	_, err := svc.List(context.Background(), "invoice", ListRequest{})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Kind != "invoice" {
		t.Fatalf("unexpected kind in error: %q", cfgErr.Kind)
	}
}

func TestListPageCounts(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	cases := []struct {
		name          string
		total         int64
		rows          int
		perPage       int
		wantPageCount int64
	}{
		{"25 over 10", 25, 10, 10, 3},
		{"exact fit", 20, 10, 10, 2},
		{"single page", 3, 3, 10, 1},
		{"zero matches", 0, 0, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{rows: productRows(tc.rows), total: tc.total}
			svc := NewService(store, nil, time.Minute)

			res, err := svc.List(context.Background(), "product", ListRequest{Page: 1, PerPage: tc.perPage})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if res.Total != tc.total {
				t.Fatalf("total = %d, want %d", res.Total, tc.total)
			}
			if res.PageCount != tc.wantPageCount {
				t.Fatalf("pageCount = %d, want %d", res.PageCount, tc.wantPageCount)
			}
			if len(res.Rows) != tc.rows {
				t.Fatalf("rows = %d, want %d", len(res.Rows), tc.rows)
			}
		})
	}
}

func TestListZeroMatchesYieldsEmptyPage(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{rows: []map[string]any{}, total: 0}
	svc := NewService(store, nil, time.Minute)

	res, err := svc.List(context.Background(), "product", ListRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Rows) != 0 || res.Total != 0 || res.PageCount != 0 {
		t.Fatalf("expected empty page with zero counts, got %+v", res)
	}
}

func TestListIdempotentWithoutCache(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{rows: productRows(5), total: 5}
	svc := NewService(store, nil, time.Minute)
	req := ListRequest{Page: 1, PerPage: 10, Sort: "price.asc"}

	first, err := svc.List(context.Background(), "product", req)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	second, err := svc.List(context.Background(), "product", req)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ between identical calls (-first +second):\n%s", diff)
	}
}

func TestListStoreFailurePropagatesAsStoreError(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{fail: true}
	svc := NewService(store, nil, time.Minute)

	_, err := svc.List(context.Background(), "product", ListRequest{})
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store cause, got %v", err)
	}
}

func TestListCacheTransparency(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{rows: productRows(5), total: 5}
	svc := NewService(store, NewMemCache(), time.Minute)
	req := ListRequest{Page: 1, PerPage: 10, Sort: "price.asc"}

	cold, err := svc.List(context.Background(), "product", req)
	if err != nil {
		t.Fatalf("cold List: %v", err)
	}
	warm, err := svc.List(context.Background(), "product", req)
	if err != nil {
		t.Fatalf("warm List: %v", err)
	}

	if diff := cmp.Diff(cold, warm); diff != "" {
		t.Fatalf("cache changed the result (-cold +warm):\n%s", diff)
	}
	if selects, counts := store.queryCalls(); selects != 1 || counts != 1 {
		t.Fatalf("warm call should not hit the store, got %d selects / %d counts", selects, counts)
	}
}

func TestListCacheMissAfterInvalidate(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{rows: productRows(5), total: 5}
	svc := NewService(store, NewMemCache(), time.Minute)
	req := ListRequest{Page: 1, PerPage: 10}
	ctx := context.Background()

	if _, err := svc.List(ctx, "product", req); err != nil {
		t.Fatalf("List: %v", err)
	}
	svc.Invalidate(ctx, "product")
	if _, err := svc.List(ctx, "product", req); err != nil {
		t.Fatalf("List: %v", err)
	}

	if selects, _ := store.queryCalls(); selects != 2 {
		t.Fatalf("expected a fresh store read after invalidation, got %d selects", selects)
	}
}

func TestListCacheKeyedByRequest(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{rows: productRows(5), total: 5}
	svc := NewService(store, NewMemCache(), time.Minute)
	ctx := context.Background()

	if _, err := svc.List(ctx, "product", ListRequest{Page: 1, PerPage: 10}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.List(ctx, "product", ListRequest{Page: 2, PerPage: 10}); err != nil {
		t.Fatalf("List: %v", err)
	}

	if selects, _ := store.queryCalls(); selects != 2 {
		t.Fatalf("different pages must not share a cache entry, got %d selects", selects)
	}
}

func TestCountUnknownKind(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, time.Minute)

	_, err := svc.Count(context.Background(), "invoice", ListRequest{})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestCountReturnsFilteredTotal(t *testing.T) {
	cleanup := registerProductFixture()
	defer cleanup()

	store := &fakeStore{total: 42}
	svc := NewService(store, nil, time.Minute)

	total, err := svc.Count(context.Background(), "product", ListRequest{
		Search: map[string]any{"title": "kit"},
	})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 42 {
		t.Fatalf("total = %d, want 42", total)
	}
}

func TestPageCountFormula(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{99, 100, 1},
	}
	for _, tc := range cases {
		if got := pageCount(tc.total, tc.perPage); got != tc.want {
			t.Fatalf("pageCount(%d, %d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}
