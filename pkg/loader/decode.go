package loader

import "reflect"

// TryDecode parses a string that holds a serialized document (JWT, JSON,
// YAML, TOML or NDJSON). It succeeds only when the result is a map or a
// slice; plain words and numbers report false.
func TryDecode(value string) (any, bool) {
	if value == "" {
		return nil, false
	}
	parsed, err := LoadRoot(value)
	if err != nil || !isStructured(parsed) {
		return nil, false
	}
	return parsed, true
}

func isStructured(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() { //nolint:exhaustive // only containers count
	case reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}
