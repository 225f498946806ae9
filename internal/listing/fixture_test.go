package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/atokurn/mplace-sub001/internal/entity"
)

func productFixture() *entity.Entity {
	return &entity.Entity{
		Name:        "product",
		Table:       "products",
		PrimaryKey:  "id",
		DefaultSort: entity.Sort{Field: "createdAt", Direction: "desc"},
		Fields: map[string]*entity.Field{
			"id":        {Column: "id", Type: entity.TypeString},
			"title":     {Column: "title", Type: entity.TypeString},
			"price":     {Column: "price", Type: entity.TypeNumber},
			"category":  {Column: "category", Type: entity.TypeString},
			"tags":      {Column: "tags", Type: entity.TypeStringList},
			"isActive":  {Column: "is_active", Type: entity.TypeBool},
			"createdAt": {Column: "created_at", Type: entity.TypeTimestamp},
		},
		SimpleFilters: []entity.SimpleFilter{
			{Param: "title", Field: "title", Kind: "substring"},
			{Param: "category", Field: "category", Kind: "anyOf"},
			{Param: "price", Field: "price", Kind: "range"},
			{Param: "tags", Field: "tags", Kind: "overlap"},
			{Param: "isActive", Field: "isActive", Kind: "anyOf"},
		},
		CacheTTL: "30s",
	}
}

// registerProductFixture installs the fixture into the global registry
// for service-level tests and returns a cleanup func.
func registerProductFixture() func() {
	entity.Registry["product"] = productFixture()
	return func() { delete(entity.Registry, "product") }
}

var errStoreDown = errors.New("connection refused")

type fakeStore struct {
	mu      sync.Mutex
	rows    []map[string]any
	total   int64
	fail    bool
	selects int
	counts  int
	execSQL []string
}

func (f *fakeStore) SelectMaps(_ context.Context, _ string, _ []any) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	f.selects++
	return f.rows, nil
}

func (f *fakeStore) Count(_ context.Context, _ string, _ []any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errStoreDown
	}
	f.counts++
	return f.total, nil
}

func (f *fakeStore) Exec(_ context.Context, sqlStr string, _ []any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errStoreDown
	}
	f.execSQL = append(f.execSQL, sqlStr)
	return 1, nil
}

func (f *fakeStore) queryCalls() (selects, counts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects, f.counts
}
