package resolve

import (
	"errors"
	"fmt"
)

// ErrAttributeNotFound matches every *AttributeError via errors.Is.
var ErrAttributeNotFound = errors.New("attribute not found")

// AttributeError reports that a named member does not exist on a value.
type AttributeError struct {
	// Type is the Go type name of the value that was searched.
	Type string
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("'%s' object has no attribute '%s'", e.Type, e.Name)
}

// Is reports whether target is ErrAttributeNotFound.
func (e *AttributeError) Is(target error) bool {
	return target == ErrAttributeNotFound
}

func attrError(v any, name string) error {
	return &AttributeError{Type: typeName(v), Name: name}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// TypeError is returned by ResolveAs when the terminal value has the wrong type.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value at '%s' is %s, want %s", e.Path, e.Got, e.Want)
}
