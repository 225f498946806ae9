package listing

import (
	"context"
	"time"

	"github.com/atokurn/mplace-sub001/internal/entity"
	"github.com/atokurn/mplace-sub001/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Service is the filtered list query layer shared by every admin and
// storefront listing. It is stateless apart from the page cache; each
// call is an independent read against the store.
type Service struct {
	store      Store
	cache      Cache // nil disables caching
	defaultTTL time.Duration
}

func NewService(store Store, cache Cache, defaultTTL time.Duration) *Service {
	return &Service{
		store:      store,
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// List resolves the entity kind, normalizes the request, and returns
// one page of rows plus the total match count. The rows query and the
// count query share one predicate and run concurrently; if either
// fails, or the context is cancelled, no partial result is returned.
func (s *Service) List(ctx context.Context, kind string, req ListRequest) (*PageResult, error) {
	ent, ok := entity.Lookup(kind)
	if !ok {
		return nil, &ConfigurationError{Kind: kind}
	}

	page, perPage := normalizePage(req)
	offset := uint64(page-1) * uint64(perPage)
	orderBys := normalizeSort(ent, req.Sort)
	where := buildWhere(ent, req)

	listSQL, listArgs, err := BuildListQuery(ent, where, orderBys, offset, uint64(perPage)).ToSql()
	if err != nil {
		return nil, &StoreError{Op: "build", Err: err}
	}
	countSQL, countArgs, err := BuildCountQuery(ent, where).ToSql()
	if err != nil {
		return nil, &StoreError{Op: "build", Err: err}
	}

	key := cacheKey(kind, listSQL, listArgs)
	if s.cache != nil {
		if res, hit := s.cache.Get(ctx, kind, key); hit {
			logger.Debug("list_cache_hit", map[string]any{"entity": kind})
			return res, nil
		}
	}

	var (
		rows  []map[string]any
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.SelectMaps(gctx, listSQL, listArgs)
		if err != nil {
			return &StoreError{Op: "select", Err: err}
		}
		rows = r
		return nil
	})
	g.Go(func() error {
		t, err := s.store.Count(gctx, countSQL, countArgs)
		if err != nil {
			return &StoreError{Op: "count", Err: err}
		}
		total = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &PageResult{
		Rows:      rows,
		Total:     total,
		PageCount: pageCount(total, perPage),
	}

	if s.cache != nil {
		s.cache.Set(ctx, kind, key, res, ent.TTL(s.defaultTTL))
	}
	return res, nil
}

// Count runs only the filtered count, for callers that need no rows.
func (s *Service) Count(ctx context.Context, kind string, req ListRequest) (int64, error) {
	ent, ok := entity.Lookup(kind)
	if !ok {
		return 0, &ConfigurationError{Kind: kind}
	}

	where := buildWhere(ent, req)
	countSQL, countArgs, err := BuildCountQuery(ent, where).ToSql()
	if err != nil {
		return 0, &StoreError{Op: "build", Err: err}
	}
	total, err := s.store.Count(ctx, countSQL, countArgs)
	if err != nil {
		return 0, &StoreError{Op: "count", Err: err}
	}
	return total, nil
}

// Invalidate drops every cached page of one entity kind. Mutations call
// this after their write commits so a follow-up read never serves a
// stale page.
func (s *Service) Invalidate(ctx context.Context, kind string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, kind)
	}
}

func pageCount(total int64, perPage int) int64 {
	if total <= 0 {
		return 0
	}
	pp := int64(perPage)
	return (total + pp - 1) / pp
}
