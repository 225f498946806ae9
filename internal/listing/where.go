package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atokurn/mplace-sub001/internal/entity"
	"github.com/atokurn/mplace-sub001/internal/logger"

	"github.com/Masterminds/squirrel"
)

// buildWhere dispatches between the two filter modes. The modes are
// exclusive: when the flag selects advanced mode the Search block has
// no effect, even if populated. An advanced request with an empty
// filter list matches everything.
func buildWhere(ent *entity.Entity, req ListRequest) squirrel.Sqlizer {
	if req.FilterFlag == FlagAdvanced {
		return buildAdvancedWhere(ent, req.Filters, req.JoinOperator)
	}
	return buildSimpleWhere(ent, req.Search)
}

// buildAdvancedWhere maps the generic {id, operator, value} list onto
// squirrel conditions and combines them with the single join operator.
// Unknown fields, unknown operators and uncoercible values drop the
// individual filter; a nil result means no constraint.
func buildAdvancedWhere(ent *entity.Entity, filters []Filter, joinOperator string) squirrel.Sqlizer {
	var exprs []squirrel.Sqlizer

	for _, f := range filters {
		col, ok := ent.Column(f.ID)
		if !ok {
			logger.Warn("filter_unknown_field", map[string]any{
				"entity": ent.Name,
				"field":  f.ID,
			})
			continue
		}
		ft, _ := ent.Type(f.ID)

		op := f.Operator
		if op == "" {
			op = "eq"
		}

		cond := buildCondition(col, ft, op, f.Value)
		if cond == nil {
			logger.Warn("filter_dropped", map[string]any{
				"entity":   ent.Name,
				"field":    f.ID,
				"operator": op,
			})
			continue
		}
		exprs = append(exprs, cond)
	}

	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	if strings.EqualFold(joinOperator, JoinOr) {
		return squirrel.Or(exprs)
	}
	return squirrel.And(exprs)
}

func buildCondition(col string, ft entity.FieldType, op string, val any) squirrel.Sqlizer {
	switch op {
	case "eq":
		if v, ok := coerceScalar(ft, val); ok {
			return squirrel.Eq{col: v}
		}
	case "ne":
		if v, ok := coerceScalar(ft, val); ok {
			return squirrel.NotEq{col: v}
		}
	case "ilike":
		if s, ok := asString(val); ok {
			return squirrel.ILike{col: "%" + s + "%"}
		}
	case "notIlike":
		if s, ok := asString(val); ok {
			return squirrel.NotILike{col: "%" + s + "%"}
		}
	case "isNull":
		return squirrel.Eq{col: nil}
	case "isNotNull":
		return squirrel.NotEq{col: nil}
	case "gt":
		if v, ok := coerceScalar(ft, val); ok {
			return squirrel.Gt{col: v}
		}
	case "gte":
		if v, ok := coerceScalar(ft, val); ok {
			return squirrel.GtOrEq{col: v}
		}
	case "lt":
		if v, ok := coerceScalar(ft, val); ok {
			return squirrel.Lt{col: v}
		}
	case "lte":
		if v, ok := coerceScalar(ft, val); ok {
			return squirrel.LtOrEq{col: v}
		}
	case "in":
		if vs, ok := coerceList(ft, val); ok {
			return squirrel.Eq{col: vs} // squirrel renders a slice as IN
		}
	}
	return nil
}

// buildSimpleWhere applies the entity's declared simple-filter
// vocabulary to the request's search parameters. Absent parameters
// impose no constraint; all present ones combine with AND.
func buildSimpleWhere(ent *entity.Entity, search map[string]any) squirrel.Sqlizer {
	if len(search) == 0 {
		return nil
	}

	var exprs []squirrel.Sqlizer
	for _, sf := range ent.SimpleFilters {
		raw, present := search[sf.Param]
		if !present || raw == nil {
			continue
		}
		col, ok := ent.Column(sf.Field)
		if !ok {
			continue
		}
		ft, _ := ent.Type(sf.Field)

		switch sf.Kind {
		case "substring":
			if s, ok := asString(raw); ok && s != "" {
				exprs = append(exprs, squirrel.ILike{col: "%" + s + "%"})
			}
		case "anyOf":
			if vs, ok := coerceList(ft, raw); ok && len(vs) > 0 {
				exprs = append(exprs, squirrel.Eq{col: vs})
			}
		case "range":
			if cond := rangeCondition(col, ft, raw); cond != nil {
				exprs = append(exprs, cond)
			}
		case "overlap":
			if vs, ok := stringList(raw); ok && len(vs) > 0 {
				exprs = append(exprs, squirrel.Expr(col+" && ?", vs))
			}
		}
	}

	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return squirrel.And(exprs)
}

// rangeCondition accepts {"min": x, "max": y} with either bound
// optional. A bound that fails coercion is ignored.
func rangeCondition(col string, ft entity.FieldType, raw any) squirrel.Sqlizer {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	var exprs []squirrel.Sqlizer
	if lo, present := m["min"]; present {
		if v, ok := coerceScalar(ft, lo); ok {
			exprs = append(exprs, squirrel.GtOrEq{col: v})
		}
	}
	if hi, present := m["max"]; present {
		if v, ok := coerceScalar(ft, hi); ok {
			exprs = append(exprs, squirrel.LtOrEq{col: v})
		}
	}
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		return squirrel.And(exprs)
	}
}

// coerceScalar converts a JSON-decoded value to the field's semantic
// type. The bool reports whether the value is usable; a false drop is
// silent normalization, not an error.
func coerceScalar(ft entity.FieldType, val any) (any, bool) {
	if val == nil {
		return nil, false
	}
	switch ft {
	case entity.TypeNumber:
		switch v := val.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
		return nil, false
	case entity.TypeBool:
		switch v := val.(type) {
		case bool:
			return v, true
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b, true
			}
		}
		return nil, false
	case entity.TypeTimestamp:
		switch v := val.(type) {
		case time.Time:
			return v, true
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t, true
			}
			if t, err := time.Parse("2006-01-02", v); err == nil {
				return t, true
			}
		case float64:
			// epoch milliseconds, as date pickers send them
			return time.UnixMilli(int64(v)).UTC(), true
		}
		return nil, false
	default:
		// string, enum and stringlist elements pass through as text
		if s, ok := asString(val); ok {
			return s, true
		}
		return nil, false
	}
}

func coerceList(ft entity.FieldType, val any) ([]any, bool) {
	items, ok := val.([]any)
	if !ok {
		// scalar shorthand: treat as a one-element list
		if v, okv := coerceScalar(ft, val); okv {
			return []any{v}, true
		}
		return nil, false
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if v, okv := coerceScalar(ft, item); okv {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func stringList(val any) ([]string, bool) {
	switch v := val.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := asString(item); ok {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	case string:
		return []string{v}, true
	}
	return nil, false
}

func asString(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
