package entity

import (
	"fmt"
	"time"
)

// FieldType maps the semantic type of an entity field. It controls how
// filter values are coerced and which operators make sense for the field.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeNumber     FieldType = "number"
	TypeBool       FieldType = "bool"
	TypeTimestamp  FieldType = "timestamp"
	TypeEnum       FieldType = "enum"
	TypeStringList FieldType = "stringlist"
)

// Field is one entry of an entity's field registry: a filterable and
// sortable column, keyed in requests by its logical name.
type Field struct {
	Column string    `yaml:"column"`
	Type   FieldType `yaml:"type"`
	Values []string  `yaml:"values"` // allowed values for enum fields
}

// Sort declares a default ordering for an entity kind.
type Sort struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"` // "asc" or "desc"
}

// SimpleFilter declares one named search parameter of the entity's
// simple filter mode and how it maps onto a field.
type SimpleFilter struct {
	Param string `yaml:"param"`
	Field string `yaml:"field"`
	Kind  string `yaml:"kind"` // substring | anyOf | range | overlap
}

// Entity describes one listable kind: its table, field registry,
// default sort, simple-filter vocabulary and cache policy.
type Entity struct {
	Name          string            `yaml:"-"`
	Table         string            `yaml:"table"`
	PrimaryKey    string            `yaml:"primary_key"`
	Fields        map[string]*Field `yaml:"fields"`
	DefaultSort   Sort              `yaml:"default_sort"`
	SimpleFilters []SimpleFilter    `yaml:"simple_filters"`
	CacheTTL      string            `yaml:"cache_ttl"` // Go duration string, e.g. "30s"
}

// Column resolves a logical field name to its qualified SQL column.
// The bool reports whether the field exists in the registry.
func (e *Entity) Column(field string) (string, bool) {
	f, ok := e.Fields[field]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("main.%s", f.Column), true
}

// Type reports the declared semantic type of a field.
func (e *Entity) Type(field string) (FieldType, bool) {
	f, ok := e.Fields[field]
	if !ok {
		return "", false
	}
	return f.Type, true
}

// PrimaryKeyColumn returns the qualified primary key column, defaulting
// to "id". It is appended to every ORDER BY as the stable tie-break.
func (e *Entity) PrimaryKeyColumn() string {
	pk := e.PrimaryKey
	if pk == "" {
		pk = "id"
	}
	return fmt.Sprintf("main.%s", pk)
}

// TTL parses the entity's cache_ttl, falling back to the given default
// when unset. Invalid values were rejected at registry init.
func (e *Entity) TTL(fallback time.Duration) time.Duration {
	if e.CacheTTL == "" {
		return fallback
	}
	d, err := time.ParseDuration(e.CacheTTL)
	if err != nil {
		return fallback
	}
	return d
}
