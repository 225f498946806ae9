package listing

import (
	"context"
	"fmt"
	"sort"

	"github.com/atokurn/mplace-sub001/internal/entity"
	"github.com/atokurn/mplace-sub001/internal/logger"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Create inserts one row, checked against the field registry. Values
// for unknown fields are dropped with a warning; the id is generated
// when the caller does not supply one. Returns the row id.
func (s *Service) Create(ctx context.Context, kind string, values map[string]any) (string, error) {
	ent, ok := entity.Lookup(kind)
	if !ok {
		return "", &ConfigurationError{Kind: kind}
	}

	cols, vals := mutationColumns(ent, values)

	id, hasID := values["id"].(string)
	if !hasID || id == "" {
		id = uuid.NewString()
	}
	if !containsString(cols, columnName(ent, "id")) {
		cols = append(cols, columnName(ent, "id"))
		vals = append(vals, id)
	}

	if len(cols) == 0 {
		return "", fmt.Errorf("no usable fields for %s create", kind)
	}

	sqlStr, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Insert(ent.Table).
		Columns(cols...).
		Values(vals...).
		ToSql()
	if err != nil {
		return "", &StoreError{Op: "build", Err: err}
	}
	if _, err := s.store.Exec(ctx, sqlStr, args); err != nil {
		return "", &StoreError{Op: "exec", Err: err}
	}

	s.Invalidate(ctx, kind)
	return id, nil
}

// Update writes the given fields of one row by id. Returns the number
// of rows affected (0 when the id does not exist).
func (s *Service) Update(ctx context.Context, kind, id string, values map[string]any) (int64, error) {
	ent, ok := entity.Lookup(kind)
	if !ok {
		return 0, &ConfigurationError{Kind: kind}
	}

	cols, vals := mutationColumns(ent, values)
	if len(cols) == 0 {
		return 0, fmt.Errorf("no usable fields for %s update", kind)
	}

	ub := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Update(ent.Table)
	for i, col := range cols {
		ub = ub.Set(col, vals[i])
	}
	ub = ub.Where(squirrel.Eq{columnName(ent, "id"): id})

	sqlStr, args, err := ub.ToSql()
	if err != nil {
		return 0, &StoreError{Op: "build", Err: err}
	}
	affected, err := s.store.Exec(ctx, sqlStr, args)
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: err}
	}

	s.Invalidate(ctx, kind)
	return affected, nil
}

// Delete removes one row by id and reports rows affected.
func (s *Service) Delete(ctx context.Context, kind, id string) (int64, error) {
	ent, ok := entity.Lookup(kind)
	if !ok {
		return 0, &ConfigurationError{Kind: kind}
	}

	sqlStr, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Delete(ent.Table).
		Where(squirrel.Eq{columnName(ent, "id"): id}).
		ToSql()
	if err != nil {
		return 0, &StoreError{Op: "build", Err: err}
	}
	affected, err := s.store.Exec(ctx, sqlStr, args)
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: err}
	}

	s.Invalidate(ctx, kind)
	return affected, nil
}

// mutationColumns filters the value map through the registry, coercing
// each value to its field's type. Fields iterate in sorted order so the
// generated SQL is stable.
func mutationColumns(ent *entity.Entity, values map[string]any) (cols []string, vals []any) {
	for _, name := range sortedFieldNames(ent) {
		if name == "id" {
			continue // id handled by the caller
		}
		raw, present := values[name]
		if !present {
			continue
		}
		f := ent.Fields[name]
		if f.Type == entity.TypeStringList {
			if vs, ok := stringList(raw); ok {
				cols = append(cols, f.Column)
				vals = append(vals, vs)
			}
			continue
		}
		v, ok := coerceScalar(f.Type, raw)
		if !ok {
			logger.Warn("mutation_value_dropped", map[string]any{
				"entity": ent.Name,
				"field":  name,
			})
			continue
		}
		cols = append(cols, f.Column)
		vals = append(vals, v)
	}
	return cols, vals
}

func sortedFieldNames(ent *entity.Entity) []string {
	names := make([]string, 0, len(ent.Fields))
	for name := range ent.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func columnName(ent *entity.Entity, field string) string {
	if f, ok := ent.Fields[field]; ok {
		return f.Column
	}
	return field
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
