package listing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the minimal surface the service needs from the backing
// store: a row fetch that yields field-name-keyed maps, a count
// aggregate, and a statement execution for mutations.
type Store interface {
	SelectMaps(ctx context.Context, sqlStr string, args []any) ([]map[string]any, error)
	Count(ctx context.Context, sqlStr string, args []any) (int64, error)
	Exec(ctx context.Context, sqlStr string, args []any) (int64, error)
}

// PgxStore runs queries against a pgx connection pool.
type PgxStore struct {
	Pool *pgxpool.Pool
}

func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{Pool: pool}
}

func (s *PgxStore) SelectMaps(ctx context.Context, sqlStr string, args []any) ([]map[string]any, error) {
	rows, err := s.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	out := []map[string]any{}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fds))
		for i, fd := range fds {
			row[string(fd.Name)] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PgxStore) Count(ctx context.Context, sqlStr string, args []any) (int64, error) {
	var count int64
	if err := s.Pool.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *PgxStore) Exec(ctx context.Context, sqlStr string, args []any) (int64, error) {
	tag, err := s.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
