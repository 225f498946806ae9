package entity

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

var allowedEntityKeys = map[string]bool{
	"table":          true,
	"primary_key":    true,
	"fields":         true,
	"default_sort":   true,
	"simple_filters": true,
	"cache_ttl":      true,
}

var allowedFieldKeys = map[string]bool{
	"column": true,
	"type":   true,
	"values": true,
}

var allowedSortKeys = map[string]bool{
	"field":     true,
	"direction": true,
}

var allowedSimpleFilterKeys = map[string]bool{
	"param": true,
	"field": true,
	"kind":  true,
}

var allowedFieldTypeValues = map[string]bool{
	string(TypeString):     true,
	string(TypeNumber):     true,
	string(TypeBool):       true,
	string(TypeTimestamp):  true,
	string(TypeEnum):       true,
	string(TypeStringList): true,
}

var allowedSimpleFilterKinds = map[string]bool{
	"substring": true,
	"anyOf":     true,
	"range":     true,
	"overlap":   true,
}

func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, "entity"); err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		var allowedKeys map[string]bool
		switch context {
		case "entity":
			allowedKeys = allowedEntityKeys
		case "field":
			allowedKeys = allowedFieldKeys
		case "default_sort":
			allowedKeys = allowedSortKeys
		case "simple_filter":
			allowedKeys = allowedSimpleFilterKeys
		default:
			allowedKeys = nil
		}

		for i := 0; i < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			key := keyNode.Value

			if allowedKeys != nil && !allowedKeys[key] {
				return fmt.Errorf("unknown key '%s' in %s", key, context)
			}

			if context == "field" && key == "type" {
				if !allowedFieldTypeValues[valNode.Value] {
					return fmt.Errorf("unknown type value '%s' in field", valNode.Value)
				}
			}
			if context == "simple_filter" && key == "kind" {
				if !allowedSimpleFilterKinds[valNode.Value] {
					return fmt.Errorf("unknown kind '%s' in simple_filter", valNode.Value)
				}
			}

			nextContext := ""
			if context == "entity" && key == "fields" {
				nextContext = "fields-map"
			} else if context == "fields-map" {
				nextContext = "field"
			} else if context == "entity" && key == "default_sort" {
				nextContext = "default_sort"
			} else if context == "entity" && key == "simple_filters" {
				nextContext = "simple_filters-seq"
			} else {
				nextContext = context
			}

			if err := validateYAMLNode(valNode, nextContext); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		if context == "simple_filters-seq" {
			for _, item := range node.Content {
				if err := validateYAMLNode(item, "simple_filter"); err != nil {
					return err
				}
			}
		} else {
			for _, item := range node.Content {
				if err := validateYAMLNode(item, context); err != nil {
					return err
				}
			}
		}

	case yaml.ScalarNode:
		// scalar values are checked where their mapping key is known
	}

	return nil
}

// ValidateRegistry runs cross-field checks after every definition has
// been loaded: referenced fields must exist, directions and durations
// must parse. Misconfigured definitions fail fast at startup.
func ValidateRegistry() error {
	for kind, ent := range Registry {
		if ent.Table == "" {
			return fmt.Errorf("entity %s: missing table", kind)
		}
		if len(ent.Fields) == 0 {
			return fmt.Errorf("entity %s: no fields declared", kind)
		}
		if pk := ent.PrimaryKey; pk != "" {
			if _, ok := ent.Fields[pk]; !ok {
				return fmt.Errorf("entity %s: primary_key '%s' is not a declared field", kind, pk)
			}
		}
		if ds := ent.DefaultSort; ds.Field != "" {
			if _, ok := ent.Fields[ds.Field]; !ok {
				return fmt.Errorf("entity %s: default_sort field '%s' is not a declared field", kind, ds.Field)
			}
			if ds.Direction != "" && ds.Direction != "asc" && ds.Direction != "desc" {
				return fmt.Errorf("entity %s: default_sort direction '%s'", kind, ds.Direction)
			}
		}
		for _, sf := range ent.SimpleFilters {
			if sf.Param == "" {
				return fmt.Errorf("entity %s: simple filter without param", kind)
			}
			if _, ok := ent.Fields[sf.Field]; !ok {
				return fmt.Errorf("entity %s: simple filter '%s' references unknown field '%s'", kind, sf.Param, sf.Field)
			}
		}
		if ent.CacheTTL != "" {
			if _, err := time.ParseDuration(ent.CacheTTL); err != nil {
				return fmt.Errorf("entity %s: bad cache_ttl: %w", kind, err)
			}
		}
	}
	return nil
}
