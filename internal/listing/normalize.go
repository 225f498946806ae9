package listing

import (
	"fmt"
	"strings"

	"github.com/atokurn/mplace-sub001/internal/entity"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

// normalizePage clamps pagination to sane values. Out-of-range input is
// corrected silently; the caller always gets a valid page request.
func normalizePage(req ListRequest) (page, perPage int) {
	page = req.Page
	if page < 1 {
		page = defaultPage
	}
	perPage = req.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// normalizeSort resolves the request's sort input against the entity's
// field registry and returns ORDER BY expressions. Unresolvable fields
// are skipped; if nothing survives, the entity's default sort applies.
// The primary key is appended ascending as a stable tie-break so that
// pagination stays deterministic for equal sort keys.
func normalizeSort(ent *entity.Entity, raw any) []string {
	specs := parseSortInput(raw)

	var orderBys []string
	pk := ent.PrimaryKeyColumn()
	pkSeen := false

	for _, s := range specs {
		col, ok := ent.Column(s.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if strings.EqualFold(s.Direction, "desc") {
			dir = "DESC"
		}
		orderBys = append(orderBys, fmt.Sprintf("%s %s", col, dir))
		if col == pk {
			pkSeen = true
		}
	}

	if len(orderBys) == 0 {
		orderBys = append(orderBys, defaultOrderBy(ent))
	}
	if !pkSeen {
		orderBys = append(orderBys, pk+" ASC")
	}
	return orderBys
}

func defaultOrderBy(ent *entity.Entity) string {
	ds := ent.DefaultSort
	if ds.Field != "" {
		if col, ok := ent.Column(ds.Field); ok {
			dir := "ASC"
			if strings.EqualFold(ds.Direction, "desc") {
				dir = "DESC"
			}
			return fmt.Sprintf("%s %s", col, dir)
		}
	}
	// registry validation guarantees default_sort resolves when set;
	// entities without one sort by creation time, newest first
	if col, ok := ent.Column("createdAt"); ok {
		return col + " DESC"
	}
	return ent.PrimaryKeyColumn() + " ASC"
}

// parseSortInput accepts the three shapes a request may carry:
// a "field.direction" token, a list of tokens, or a list of
// {field, direction} objects (JSON decodes the latter to maps).
func parseSortInput(raw any) []SortSpec {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if spec, ok := parseSortToken(v); ok {
			return []SortSpec{spec}
		}
		return nil
	case SortSpec:
		return []SortSpec{v}
	case []SortSpec:
		return v
	case []any:
		var specs []SortSpec
		for _, item := range v {
			switch it := item.(type) {
			case string:
				if spec, ok := parseSortToken(it); ok {
					specs = append(specs, spec)
				}
			case map[string]any:
				if spec, ok := sortSpecFromMap(it); ok {
					specs = append(specs, spec)
				}
			case SortSpec:
				specs = append(specs, it)
			}
		}
		return specs
	case map[string]any:
		if spec, ok := sortSpecFromMap(v); ok {
			return []SortSpec{spec}
		}
		return nil
	default:
		return nil
	}
}

func parseSortToken(token string) (SortSpec, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SortSpec{}, false
	}
	// the direction is the suffix after the last dot: "price.asc"
	if idx := strings.LastIndex(token, "."); idx > 0 {
		field, dir := token[:idx], token[idx+1:]
		if strings.EqualFold(dir, "asc") || strings.EqualFold(dir, "desc") {
			return SortSpec{Field: field, Direction: strings.ToLower(dir)}, true
		}
	}
	return SortSpec{Field: token, Direction: "asc"}, true
}

func sortSpecFromMap(m map[string]any) (SortSpec, bool) {
	field, _ := m["field"].(string)
	if field == "" {
		// also accept the column-state shape {id, desc} used by table UIs
		if id, ok := m["id"].(string); ok && id != "" {
			dir := "asc"
			if desc, ok := m["desc"].(bool); ok && desc {
				dir = "desc"
			}
			return SortSpec{Field: id, Direction: dir}, true
		}
		return SortSpec{}, false
	}
	dir, _ := m["direction"].(string)
	return SortSpec{Field: field, Direction: dir}, true
}
