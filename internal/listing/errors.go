package listing

import "fmt"

// ConfigurationError reports a request for an entity kind that is not
// present in the registry. This is a wiring mistake, not user input:
// client-supplied fields, operators and pagination are normalized away
// instead of surfacing errors.
type ConfigurationError struct {
	Kind string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown entity kind %q", e.Kind)
}

// StoreError wraps a failed row fetch, count or mutation against the
// backing store. The caller decides how to degrade; this package does
// not retry.
type StoreError struct {
	Op  string // "select", "count", "exec", "build"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
