package entity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atokurn/mplace-sub001/internal/logger"

	"gopkg.in/yaml.v3"
)

// LoadEntitiesFromDir reads every *.yml in dir as one entity definition.
// The file name (without extension) becomes the entity kind, e.g.
// db/entities/product.yml registers kind "product".
func LoadEntitiesFromDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no entity definitions found in %s", dir)
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		// Structural pass over yaml.Node first, so that typos in keys
		// are rejected instead of silently decoding to zero values.
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("YAML parse error in %s: %w", path, err)
		}
		if len(root.Content) == 0 {
			return fmt.Errorf("empty YAML in %s", path)
		}
		if err := validateYAMLNode(root.Content[0], "entity"); err != nil {
			return fmt.Errorf("validation error in %s: %w", path, err)
		}

		var ent Entity
		if err := root.Decode(&ent); err != nil {
			return fmt.Errorf("unmarshal error in %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		ent.Name = name
		Registry[name] = &ent
		logger.Info("entity_loaded", map[string]any{
			"kind":   name,
			"table":  ent.Table,
			"fields": len(ent.Fields),
		})
	}
	return nil
}
