package listing

import (
	"fmt"
	"sort"

	"github.com/atokurn/mplace-sub001/internal/entity"

	"github.com/Masterminds/squirrel"
)

// BuildListQuery assembles the paginated row fetch for one normalized
// request. Columns are aliased to their logical field names so rows
// scan straight into the response shape.
func BuildListQuery(
	ent *entity.Entity,
	where squirrel.Sqlizer,
	orderBys []string,
	offset, limit uint64,
) squirrel.SelectBuilder {
	sb := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(selectColumns(ent)...).
		From(fmt.Sprintf("%s AS main", ent.Table))

	if where != nil {
		sb = sb.Where(where)
	}
	for _, ob := range orderBys {
		sb = sb.OrderBy(ob)
	}
	if limit > 0 {
		sb = sb.Limit(limit)
	}
	if offset > 0 {
		sb = sb.Offset(offset)
	}
	return sb
}

// BuildCountQuery shares the WHERE predicate with the row fetch but
// drops ordering and pagination: the total must reflect every match.
func BuildCountQuery(ent *entity.Entity, where squirrel.Sqlizer) squirrel.SelectBuilder {
	sb := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		From(fmt.Sprintf("%s AS main", ent.Table))

	if where != nil {
		sb = sb.Where(where)
	}
	return sb
}

// selectColumns lists every registry field as `main.col AS "name"`,
// in deterministic order so identical requests produce identical SQL.
func selectColumns(ent *entity.Entity) []string {
	names := make([]string, 0, len(ent.Fields))
	for name := range ent.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	for _, name := range names {
		col, _ := ent.Column(name)
		cols = append(cols, fmt.Sprintf(`%s AS %q`, col, name))
	}
	return cols
}
