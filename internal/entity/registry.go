package entity

import "fmt"

var Registry = map[string]*Entity{}

func InitRegistry(dir string) error {
	if err := LoadEntitiesFromDir(dir); err != nil {
		return fmt.Errorf("load error: %w", err)
	}
	if err := ValidateRegistry(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// Lookup returns the definition for an entity kind, if registered.
func Lookup(kind string) (*Entity, bool) {
	e, ok := Registry[kind]
	return e, ok
}
